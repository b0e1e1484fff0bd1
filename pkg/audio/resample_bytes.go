package audio

import "github.com/liangz-zzz/voice-satellite/pkg/resample"

// resamplePCMBytes adapts little-endian 16-bit mono PCM bytes from inRate to
// outRate, used by playback backends whose device sample rate differs from
// the rate TTS/beep audio was generated at.
func resamplePCMBytes(pcm []byte, inRate, outRate int) []byte {
	samples := make([]int16, len(pcm)/2)
	for i := range samples {
		samples[i] = int16(pcm[2*i]) | int16(pcm[2*i+1])<<8
	}
	outLen := len(samples)
	if inRate != outRate {
		outLen = int(float64(len(samples)) * float64(outRate) / float64(inRate))
	}
	resampled := resample.Int16(samples, outLen)
	out := make([]byte, len(resampled)*2)
	for i, v := range resampled {
		out[2*i] = byte(v)
		out[2*i+1] = byte(v >> 8)
	}
	return out
}
