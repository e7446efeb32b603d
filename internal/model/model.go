package model

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// ErrShape is returned when the input slice does not match the
// model's (1, H, W, 1) input tensor.
var ErrShape = fmt.Errorf("input does not match model input shape")

// Model wraps an ONNX runtime session for the pneumonia classifier.
// It is created once at startup and shared by every request. The
// session runs against fixed pre-bound tensors, so forward passes are
// serialized with a mutex; a concurrent Run would race on the buffers.
type Model struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]

	Metadata Metadata
}

// Load initializes the ONNX runtime and builds a session around the
// model artifact. Any failure here is fatal: the process must not
// accept traffic without a loaded model.
func Load(modelPath, metadataPath string) (*Model, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}

	metadata, err := readMetadata(metadataPath)
	if err != nil {
		return nil, err
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Model{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		Metadata:     metadata,
	}, nil
}

// Predict runs one forward pass and returns the scalar output: the
// model's probability that the X-ray is normal.
func (m *Model) Predict(input []float32) (float32, error) {
	if len(input) != m.Metadata.InputSize() {
		return 0, fmt.Errorf("%w: expected %d values, got %d",
			ErrShape, m.Metadata.InputSize(), len(input))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.inputTensor.GetData(), input)
	if err := m.session.Run(); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}

	return m.outputTensor.GetData()[0], nil
}

func (m *Model) Close() {
	if m.inputTensor != nil {
		m.inputTensor.Destroy()
	}
	if m.outputTensor != nil {
		m.outputTensor.Destroy()
	}
	if m.session != nil {
		m.session.Destroy()
	}
	ort.DestroyEnvironment()
}
