//go:build silero

package vadengine

import (
	_ "embed"
)

// sileroModelData contains the Silero VAD v5 ONNX model embedded at build
// time.
//
// BUILD REQUIREMENT: the model file must exist at
// pkg/providers/vadengine/silero_vad.onnx before compiling with -tags
// silero; it is not part of this repository.
//
// A "pattern silero_vad.onnx: no matching files found" build error means
// the model file is missing.
//
//go:embed silero_vad.onnx
var sileroModelData []byte
