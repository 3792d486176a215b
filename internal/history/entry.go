package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entry is one served prediction
type Entry struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PredictedClass string    `gorm:"size:64;not null;index" json:"predicted_class"`
	Confidence     float64   `gorm:"not null" json:"confidence"`
	Filename       string    `gorm:"size:255" json:"filename"`
	ImageSHA256    string    `gorm:"column:image_sha256;size:64;index" json:"image_sha256"`
	Cached         bool      `gorm:"not null;default:false" json:"cached"`
	CreatedAt      time.Time `gorm:"index" json:"created_at"`
}

func (Entry) TableName() string {
	return "prediction_history"
}

// BeforeCreate assigns an id when the caller did not
func (e *Entry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
