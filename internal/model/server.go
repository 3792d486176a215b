package model

import (
	"context"
	"fmt"
	"image"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/Brownie44l1/nutrisense-api/internal/config"
)

// Server owns the ONNX session. The session is bound to one pre-allocated
// input and output tensor, so runs are serialized by mu.
type Server struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	Metadata     Metadata
	Labels       LabelTable
	preprocessor Preprocessor
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

func NewServer(cfg *config.ModelConfig) (*Server, error) {
	metadata, err := LoadMetadata(cfg)
	if err != nil {
		return nil, err
	}

	layout, size, err := LayoutFromShape(metadata.InputShape)
	if err != nil {
		return nil, err
	}
	filter, err := ParseFilter(cfg.Resample)
	if err != nil {
		return nil, err
	}

	if cfg.LibraryPath != "" {
		ort.SetSharedLibraryPath(cfg.LibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	s := &Server{
		Metadata: metadata,
		Labels:   NewLabelTable(metadata.Classes),
		preprocessor: Preprocessor{
			Size:   size,
			Layout: layout,
			Filter: filter,
		},
	}

	s.inputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	s.outputTensor, err = ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	s.session, err = ort.NewAdvancedSession(cfg.Path,
		[]string{metadata.InputName}, []string{metadata.OutputName},
		[]ort.ArbitraryTensor{s.inputTensor}, []ort.ArbitraryTensor{s.outputTensor},
		nil)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return s, nil
}

// Classify runs one forward pass on img and returns the top class. A context
// that is already done is rejected before preprocessing; once the forward
// pass starts it runs to completion.
func (s *Server) Classify(ctx context.Context, img image.Image) (*Prediction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	input := s.preprocessor.Tensor(img)

	scores, err := s.run(input)
	if err != nil {
		return nil, err
	}

	if s.Metadata.ApplySoftmax {
		scores = Softmax(scores)
	}

	return Postprocess(scores, s.Labels)
}

func (s *Server) run(input []float32) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dst := s.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(dst), len(input))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := s.outputTensor.GetData()
	scores := make([]float32, len(out))
	copy(scores, out)
	return scores, nil
}

// Ready reports whether a session is loaded
func (s *Server) Ready() bool {
	return s != nil && s.session != nil
}

func (s *Server) Close() {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}
