package food

import "time"

// Food is a catalog record describing one dish
type Food struct {
	ID                       uint        `gorm:"primaryKey" json:"-" yaml:"-"`
	Name                     string      `gorm:"size:128;not null;uniqueIndex" json:"name" yaml:"name"`
	NumCalories              string      `gorm:"not null" json:"numCalories" yaml:"numCalories"`
	DigestionTime            string      `gorm:"not null" json:"digestionTime" yaml:"digestionTime"`
	TimeToEat                string      `gorm:"not null" json:"timeToEat" yaml:"timeToEat"`
	DigestionComplexity      string      `gorm:"not null" json:"digestionComplexity" yaml:"digestionComplexity"`
	AdditionalDigestionNotes string      `gorm:"not null" json:"additionalDigestionNotes" yaml:"additionalDigestionNotes"`
	Benefits                 []Benefit   `gorm:"constraint:OnDelete:CASCADE" json:"benefits" yaml:"benefits"`
	OtherNames               []OtherName `gorm:"constraint:OnDelete:CASCADE" json:"otherNames" yaml:"otherNames"`
	Cautions                 []Caution   `gorm:"constraint:OnDelete:CASCADE" json:"cautions" yaml:"cautions"`
	NutrientBreakdown        []Nutrient  `gorm:"constraint:OnDelete:CASCADE" json:"nutrientBreakdown" yaml:"nutrientBreakdown"`
	CreatedAt                time.Time   `json:"-" yaml:"-"`
	UpdatedAt                time.Time   `json:"-" yaml:"-"`
}

func (Food) TableName() string { return "foods" }

type Benefit struct {
	ID     uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	FoodID uint   `gorm:"index;not null" json:"-" yaml:"-"`
	Title  string `json:"title" yaml:"title"`
	Info   string `json:"info" yaml:"info"`
}

func (Benefit) TableName() string { return "food_benefits" }

type OtherName struct {
	ID     uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	FoodID uint   `gorm:"index;not null" json:"-" yaml:"-"`
	Name   string `gorm:"size:128" json:"name" yaml:"name"`
}

func (OtherName) TableName() string { return "food_other_names" }

type Caution struct {
	ID     uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	FoodID uint   `gorm:"index;not null" json:"-" yaml:"-"`
	Title  string `json:"title" yaml:"title"`
	Info   string `json:"info" yaml:"info"`
}

func (Caution) TableName() string { return "food_cautions" }

// Nutrient is one row of a food's nutrient breakdown. Info is free text
// such as "34g (12% DV)".
type Nutrient struct {
	ID                uint    `gorm:"primaryKey" json:"-" yaml:"-"`
	FoodID            uint    `gorm:"index;not null" json:"-" yaml:"-"`
	Nutrient          string  `json:"nutrient" yaml:"nutrient"`
	Info              string  `json:"info" yaml:"info"`
	Color             string  `json:"color" yaml:"color"`
	PercentDailyValue float64 `json:"percentDailyValue" yaml:"percentDailyValue"`
}

func (Nutrient) TableName() string { return "food_nutrients" }

// Models lists every table of the catalog for migrations
func Models() []any {
	return []any{&Food{}, &Benefit{}, &OtherName{}, &Caution{}, &Nutrient{}}
}
