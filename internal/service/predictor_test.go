package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/cache"
	"github.com/Brownie44l1/nutrisense-api/internal/history"
	"github.com/Brownie44l1/nutrisense-api/internal/model"
)

// MockClassifier is a mock implementation of Classifier
type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, img image.Image) (*model.Prediction, error) {
	args := m.Called(ctx, img)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Prediction), args.Error(1)
}

// MockHistory is a mock implementation of history.Repository
type MockHistory struct {
	mock.Mock
}

func (m *MockHistory) Create(ctx context.Context, e *history.Entry) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockHistory) List(ctx context.Context, limit, offset int) ([]history.Entry, int64, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]history.Entry), args.Get(1).(int64), args.Error(2)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{R: 180, G: 90, B: 30, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newLRU(t *testing.T) cache.Cache {
	t.Helper()
	c, err := cache.NewLRU(16)
	require.NoError(t, err)
	return c
}

func TestPredictor_Predict(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()
	banku := &model.Prediction{PredictedClass: "Banku", Confidence: 0.9732}

	t.Run("classifies and records history", func(t *testing.T) {
		classifier := new(MockClassifier)
		hist := new(MockHistory)
		data := pngBytes(t)

		classifier.On("Classify", mock.Anything, mock.MatchedBy(func(img image.Image) bool {
			return img.Bounds().Dx() == 8
		})).Return(banku, nil).Once()
		hist.On("Create", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool {
			return e.PredictedClass == "Banku" && e.Filename == "food.png" &&
				e.ImageSHA256 == cache.Key(data) && !e.Cached
		})).Return(nil).Once()

		p := NewPredictor(classifier, nil, hist, logger)
		result, err := p.Predict(ctx, Upload{Filename: "food.png", Data: data})

		require.NoError(t, err)
		assert.Equal(t, "Banku", result.PredictedClass)
		assert.Equal(t, 0.9732, result.Confidence)
		classifier.AssertExpectations(t)
		hist.AssertExpectations(t)
	})

	t.Run("serves repeated images from the cache", func(t *testing.T) {
		classifier := new(MockClassifier)
		hist := new(MockHistory)
		data := pngBytes(t)

		classifier.On("Classify", mock.Anything, mock.Anything).Return(banku, nil).Once()
		hist.On("Create", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool { return !e.Cached })).Return(nil).Once()
		hist.On("Create", mock.Anything, mock.MatchedBy(func(e *history.Entry) bool { return e.Cached })).Return(nil).Once()

		p := NewPredictor(classifier, newLRU(t), hist, logger)
		first, err := p.Predict(ctx, Upload{Filename: "a.png", Data: data})
		require.NoError(t, err)
		second, err := p.Predict(ctx, Upload{Filename: "b.png", Data: data})
		require.NoError(t, err)

		assert.Equal(t, first.PredictedClass, second.PredictedClass)
		assert.Equal(t, first.Confidence, second.Confidence)
		classifier.AssertNumberOfCalls(t, "Classify", 1)
		hist.AssertExpectations(t)
	})

	t.Run("non-image bytes fail before the model runs", func(t *testing.T) {
		classifier := new(MockClassifier)

		p := NewPredictor(classifier, newLRU(t), nil, logger)
		_, err := p.Predict(ctx, Upload{Filename: "notes.txt", Data: []byte("hello world")})

		require.Error(t, err)
		assert.NotEmpty(t, err.Error())
		classifier.AssertNotCalled(t, "Classify", mock.Anything, mock.Anything)
	})

	t.Run("classifier errors are returned and not cached", func(t *testing.T) {
		classifier := new(MockClassifier)
		data := pngBytes(t)
		c := newLRU(t)

		classifier.On("Classify", mock.Anything, mock.Anything).Return(nil, errors.New("inference failed: shape mismatch"))

		p := NewPredictor(classifier, c, nil, logger)
		_, err := p.Predict(ctx, Upload{Filename: "food.png", Data: data})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "shape mismatch")
		_, ok, _ := c.Get(ctx, cache.Key(data))
		assert.False(t, ok)
	})

	t.Run("history failures do not fail the prediction", func(t *testing.T) {
		classifier := new(MockClassifier)
		hist := new(MockHistory)

		classifier.On("Classify", mock.Anything, mock.Anything).Return(banku, nil)
		hist.On("Create", mock.Anything, mock.Anything).Return(errors.New("database is locked"))

		p := NewPredictor(classifier, nil, hist, logger)
		result, err := p.Predict(ctx, Upload{Filename: "food.png", Data: pngBytes(t)})

		require.NoError(t, err)
		assert.Equal(t, "Banku", result.PredictedClass)
	})
}
