package service

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/Brownie44l1/nutrisense-api/internal/cache"
	"github.com/Brownie44l1/nutrisense-api/internal/history"
	"github.com/Brownie44l1/nutrisense-api/internal/metrics"
	"github.com/Brownie44l1/nutrisense-api/internal/model"
)

// Classifier runs the model on a decoded image
type Classifier interface {
	Classify(ctx context.Context, img image.Image) (*model.Prediction, error)
}

// Upload is one image received from a client
type Upload struct {
	Filename string
	Data     []byte
}

// Predictor turns uploads into predictions. The cache and history
// repository are optional; their failures are logged and never returned.
type Predictor struct {
	classifier Classifier
	cache      cache.Cache
	history    history.Repository
	logger     *zap.Logger
}

func NewPredictor(classifier Classifier, c cache.Cache, h history.Repository, logger *zap.Logger) *Predictor {
	return &Predictor{
		classifier: classifier,
		cache:      c,
		history:    h,
		logger:     logger,
	}
}

// Predict decodes upload and classifies it, serving repeated images from the cache
func (p *Predictor) Predict(ctx context.Context, upload Upload) (*model.Prediction, error) {
	key := cache.Key(upload.Data)

	if cached, ok := p.lookup(ctx, key); ok {
		p.served(ctx, upload, key, cached, true)
		return cached, nil
	}

	start := time.Now()

	img, format, err := model.DecodeImage(upload.Data)
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(metrics.StageDecode).Inc()
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	prediction, err := p.classifier.Classify(ctx, img)
	metrics.InferenceDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.PredictionErrors.WithLabelValues(metrics.StageInference).Inc()
		return nil, err
	}

	p.logger.Debug("Image classified",
		zap.String("format", format),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()),
		zap.Duration("elapsed", time.Since(start)),
	)

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, prediction); err != nil {
			p.logger.Warn("Failed to cache prediction", zap.Error(err))
		}
	}

	p.served(ctx, upload, key, prediction, false)
	return prediction, nil
}

func (p *Predictor) lookup(ctx context.Context, key string) (*model.Prediction, bool) {
	if p.cache == nil {
		return nil, false
	}

	cached, ok, err := p.cache.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		p.logger.Warn("Prediction cache lookup failed", zap.Error(err))
		return nil, false
	case ok:
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return cached, true
	default:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	}
}

func (p *Predictor) served(ctx context.Context, upload Upload, key string, prediction *model.Prediction, cached bool) {
	metrics.Predictions.WithLabelValues(prediction.PredictedClass, strconv.FormatBool(cached)).Inc()

	if p.history == nil {
		return
	}

	entry := &history.Entry{
		PredictedClass: prediction.PredictedClass,
		Confidence:     prediction.Confidence,
		Filename:       upload.Filename,
		ImageSHA256:    key,
		Cached:         cached,
	}
	if err := p.history.Create(ctx, entry); err != nil {
		p.logger.Warn("Failed to record prediction history", zap.Error(err))
	}
}
