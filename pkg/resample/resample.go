// Package resample implements the linear-interpolation resampler used to
// adapt captured/played PCM geometry between a device's native sample rate
// and the fixed rate the VAD/wake/STT pipeline expects.
package resample

// Int16 linearly resamples mono 16-bit PCM to outLen samples, mirroring
// original_source/app.py's _build_resampler/_resample_block (np.linspace
// source/target grids, np.interp, clipped back to int16). Operates purely on
// lengths, like _build_resampler(capture_block, process_block): the caller
// derives outLen from whatever rate or block-size ratio applies. Returns in
// unchanged when outLen == len(in) or there are fewer than 2 input samples.
func Int16(in []int16, outLen int) []int16 {
	if outLen == len(in) || len(in) <= 1 {
		return in
	}
	if outLen <= 0 {
		return nil
	}

	out := make([]int16, outLen)
	lastIn := float64(len(in) - 1)
	lastOut := float64(outLen - 1)
	for i := 0; i < outLen; i++ {
		// Position in the source grid, matching np.linspace(0, len(in)-1, outLen).
		var srcPos float64
		if lastOut > 0 {
			srcPos = float64(i) * lastIn / lastOut
		}
		lo := int(srcPos)
		hi := lo + 1
		if hi >= len(in) {
			hi = len(in) - 1
			lo = hi
		}
		frac := srcPos - float64(lo)
		v := float64(in[lo])*(1-frac) + float64(in[hi])*frac
		out[i] = clampInt16(v)
	}
	return out
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
