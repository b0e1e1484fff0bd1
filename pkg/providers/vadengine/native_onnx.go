//go:build silero

package vadengine

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

// sileroStateSize is the hidden-state dimension per layer; Silero VAD v5
// uses a combined state tensor of shape [2, 1, 128].
const sileroStateSize = 128

var (
	ortInitOnce sync.Once
	ortInitErr  error
)

func nativeAvailable() bool { return true }

func newNativeEngine(threshold float64) (Engine, error) {
	return newSileroEngine(threshold)
}

// sileroEngine runs Silero VAD v5 inference via ONNX Runtime, one
// ExpectedWindowSize window per call, carrying the RNN state between calls
// until Reset.
type sileroEngine struct {
	session *ort.AdvancedSession

	inputTensor *ort.Tensor[float32] // [1, 512]
	stateTensor *ort.Tensor[float32] // [2, 1, 128]
	srTensor    *ort.Tensor[int64]   // scalar

	outputTensor *ort.Tensor[float32] // [1, 1]
	stateNTensor *ort.Tensor[float32] // [2, 1, 128]

	threshold float64
}

func newSileroEngine(threshold float64) (*sileroEngine, error) {
	if len(sileroModelData) == 0 {
		return nil, fmt.Errorf("vadengine: model data is empty (silero_vad.onnx was empty at build time?)")
	}

	ortInitOnce.Do(func() {
		libPath, err := resolveORTLibPath()
		if err != nil {
			ortInitErr = fmt.Errorf("resolve ort lib: %w", err)
			return
		}
		ort.SetSharedLibraryPath(libPath)
		ortInitErr = ort.InitializeEnvironment()
	})
	if ortInitErr != nil {
		return nil, fmt.Errorf("vadengine: %w", ortInitErr)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, ExpectedWindowSize))
	if err != nil {
		return nil, fmt.Errorf("vadengine: create input tensor: %w", err)
	}
	stateTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, sileroStateSize))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("vadengine: create state tensor: %w", err)
	}
	srTensor, err := ort.NewTensor(ort.NewShape(1), []int64{int64(ExpectedSampleRate)})
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		return nil, fmt.Errorf("vadengine: create sr tensor: %w", err)
	}
	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		return nil, fmt.Errorf("vadengine: create output tensor: %w", err)
	}
	stateNTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(2, 1, sileroStateSize))
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("vadengine: create stateN tensor: %w", err)
	}

	clearFloat32Slice(stateTensor.GetData())
	clearFloat32Slice(stateNTensor.GetData())

	session, err := ort.NewAdvancedSessionWithONNXData(
		sileroModelData,
		[]string{"input", "state", "sr"},
		[]string{"output", "stateN"},
		[]ort.Value{inputTensor, stateTensor, srTensor},
		[]ort.Value{outputTensor, stateNTensor},
		nil,
	)
	if err != nil {
		inputTensor.Destroy()
		stateTensor.Destroy()
		srTensor.Destroy()
		outputTensor.Destroy()
		stateNTensor.Destroy()
		return nil, fmt.Errorf("vadengine: create session: %w", err)
	}

	return &sileroEngine{
		session:      session,
		inputTensor:  inputTensor,
		stateTensor:  stateTensor,
		srTensor:     srTensor,
		outputTensor: outputTensor,
		stateNTensor: stateNTensor,
		threshold:    threshold,
	}, nil
}

// Probability runs one inference over exactly ExpectedWindowSize samples.
func (e *sileroEngine) Probability(block []int16) (float64, error) {
	if len(block) != ExpectedWindowSize {
		return 0, fmt.Errorf("vadengine: window must be %d samples, got %d", ExpectedWindowSize, len(block))
	}
	dst := e.inputTensor.GetData()
	for i, v := range block {
		dst[i] = float32(v) / 32768.0
	}

	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("vadengine: inference: %w", err)
	}

	prob := e.outputTensor.GetData()[0]
	copy(e.stateTensor.GetData(), e.stateNTensor.GetData())
	return float64(prob), nil
}

func (e *sileroEngine) Reset() error {
	clearFloat32Slice(e.stateTensor.GetData())
	return nil
}

func (e *sileroEngine) Close() error {
	if e.session != nil {
		e.session.Destroy()
		e.session = nil
	}
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
		e.inputTensor = nil
	}
	if e.stateTensor != nil {
		e.stateTensor.Destroy()
		e.stateTensor = nil
	}
	if e.srTensor != nil {
		e.srTensor.Destroy()
		e.srTensor = nil
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
		e.outputTensor = nil
	}
	if e.stateNTensor != nil {
		e.stateNTensor.Destroy()
		e.stateNTensor = nil
	}
	return nil
}

func clearFloat32Slice(s []float32) {
	for i := range s {
		s[i] = 0
	}
}
