// Package inference runs exported script-generation models with ONNX Runtime.
//
// Models take a window of word ids and produce next-word logits. The input is
// named "input_ids" (int64, shape [1, seq]); the output "logits" is either
// [1, vocab] or [1, seq, vocab], in which case the last position is used.
package inference

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var (
	ortEnvOnce sync.Once
	ortEnvErr  error
)

// ErrSessionClosed indicates use of a closed session.
var ErrSessionClosed = errors.New("inference: session is closed")

// initORT initializes ONNX Runtime environment once.
func initORT() error {
	ortEnvOnce.Do(func() {
		ortEnvErr = ort.InitializeEnvironment()
	})
	return ortEnvErr
}

// Session wraps an ONNX Runtime session for next-word inference.
type Session struct {
	session *ort.DynamicAdvancedSession
	mu      sync.Mutex
	closed  bool
}

// NewSession creates a new ONNX session from a model file.
func NewSession(modelPath string) (*Session, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model file: %w", err)
	}

	if err := initORT(); err != nil {
		return nil, fmt.Errorf("initializing ONNX runtime: %w", err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("creating session options: %w", err)
	}
	defer func() { _ = options.Destroy() }()

	session, err := ort.NewDynamicAdvancedSession(
		modelPath,
		[]string{"input_ids"},
		[]string{"logits"},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	return &Session{session: session}, nil
}

// Infer runs the model on a window of word ids and returns the logits for
// the word following the window.
func (s *Session) Infer(ctx context.Context, inputIDs []int64) ([]float32, error) {
	// Check context before expensive operation
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(inputIDs) == 0 {
		return nil, errors.New("inference: empty input")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrSessionClosed
	}

	inputTensor, err := ort.NewTensor(ort.NewShape(1, int64(len(inputIDs))), inputIDs)
	if err != nil {
		return nil, fmt.Errorf("creating input_ids tensor: %w", err)
	}
	defer func() { _ = inputTensor.Destroy() }()

	// nil entries are allocated by Run
	outputs := []ort.Value{nil}
	if err := s.session.Run([]ort.Value{inputTensor}, outputs); err != nil {
		return nil, fmt.Errorf("running inference: %w", err)
	}
	if outputs[0] == nil {
		return nil, errors.New("inference: no output produced")
	}
	defer func() { _ = outputs[0].Destroy() }()

	logitsTensor, ok := outputs[0].(*ort.Tensor[float32])
	if !ok {
		return nil, errors.New("inference: unexpected output tensor type")
	}

	shape := logitsTensor.GetShape()
	if len(shape) == 0 {
		return nil, errors.New("inference: scalar output")
	}
	vocab := int(shape[len(shape)-1])
	data := logitsTensor.GetData()
	if vocab <= 0 || len(data) < vocab {
		return nil, fmt.Errorf("inference: output shape %v", shape)
	}

	logits := make([]float32, vocab)
	copy(logits, data[len(data)-vocab:])
	return logits, nil
}

// Close releases ONNX resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	if s.session != nil {
		return s.session.Destroy()
	}
	return nil
}
