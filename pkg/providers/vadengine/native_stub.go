//go:build !silero

package vadengine

import "errors"

// ErrNativeUnavailable is returned by newNativeEngine in builds without the
// "silero" tag (no onnxruntime_go/embedded model linked in).
var ErrNativeUnavailable = errors.New("vadengine: built without silero tag; ONNX Runtime engine unavailable")

func nativeAvailable() bool { return false }

func newNativeEngine(threshold float64) (Engine, error) {
	return nil, ErrNativeUnavailable
}
