package model

// Metadata describes the ONNX artifact. It is read from an optional JSON
// sidecar; missing fields fall back to the model configuration.
type Metadata struct {
	InputShape   []int64  `json:"input_shape"`
	OutputShape  []int64  `json:"output_shape"`
	Classes      []string `json:"classes"`
	ImageSize    int      `json:"image_size"`
	InputName    string   `json:"input_name"`
	OutputName   string   `json:"output_name"`
	ApplySoftmax bool     `json:"apply_softmax"`
}

// Prediction is the top class for one image. Scores holds the full
// per-class vector the prediction was taken from and is never serialized.
type Prediction struct {
	PredictedClass string    `json:"predicted_class"`
	Confidence     float64   `json:"confidence"`
	Scores         []float32 `json:"-"`
}
