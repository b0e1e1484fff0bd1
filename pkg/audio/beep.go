package audio

import "math"

// GenerateBeepPCM synthesizes a sine tone as signed-16-bit little-endian
// mono PCM, mirroring original_source/app.py's play_beep tone generation.
func GenerateBeepPCM(sampleRate, frequencyHz int, durationMs int, volume float64) []byte {
	durationS := float64(durationMs) / 1000.0
	if durationS < 0.01 {
		durationS = 0.01
	}
	n := int(float64(sampleRate) * durationS)
	pcm := make([]byte, n*2)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		sample := math.Sin(2*math.Pi*float64(frequencyHz)*t) * volume
		v := clampInt16(sample * 32767.0)
		pcm[2*i] = byte(v)
		pcm[2*i+1] = byte(v >> 8)
	}
	return pcm
}

func clampInt16(v float64) int16 {
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
