package vad

import "math"

// Config bundles the millisecond-denominated settings the segmenter derives
// its block-count thresholds from.
type Config struct {
	Threshold       float64
	EndSilenceMs    int
	PreRollMs       int
	MaxUtteranceMs  int
	MinUtteranceMs  int
	ProcessingRate  int
	ProcessingBlock int
}

// Segmenter drives the per-block pre-roll/utterance state machine described
// by the wake-and-listen pipeline: it buffers a rolling pre-roll window,
// detects speech onset, tracks trailing silence, and emits the accumulated
// utterance (normalized float32 PCM) once end-of-speech is inferred.
type Segmenter struct {
	provider Provider
	cfg      Config

	preRollChunks    int
	endSilenceChunks int
	maxUttChunks     int
	minUttChunks     int

	preRoll       [][]int16
	utterance     [][]int16
	speechStarted bool
	silenceChunks int
}

// New derives block-count thresholds from cfg and returns a fresh segmenter.
func New(provider Provider, cfg Config) *Segmenter {
	chunksFor := func(ms int) int {
		return int(math.Floor(float64(ms) / 1000.0 * float64(cfg.ProcessingRate) / float64(cfg.ProcessingBlock)))
	}
	preRoll := chunksFor(cfg.PreRollMs)
	if preRoll < 0 {
		preRoll = 0
	}
	maxOf1 := func(n int) int {
		if n < 1 {
			return 1
		}
		return n
	}
	return &Segmenter{
		provider:         provider,
		cfg:              cfg,
		preRollChunks:    preRoll,
		endSilenceChunks: maxOf1(chunksFor(cfg.EndSilenceMs)),
		maxUttChunks:     maxOf1(chunksFor(cfg.MaxUtteranceMs)),
		minUttChunks:     maxOf1(chunksFor(cfg.MinUtteranceMs)),
	}
}

// SpeechStarted reports whether an utterance is currently being
// accumulated (speech onset has been detected since the last Reset/emit).
func (s *Segmenter) SpeechStarted() bool {
	return s.speechStarted
}

// Reset discards all in-progress state (pre-roll, utterance, counters).
func (s *Segmenter) Reset() {
	s.preRoll = nil
	s.utterance = nil
	s.speechStarted = false
	s.silenceChunks = 0
}

// Feed processes one processing-rate block. emitted is non-nil exactly when
// an utterance just completed; its samples are float32, mono, normalized by
// dividing the int16 range by 32768.
func (s *Segmenter) Feed(block []int16) (emitted []float32, err error) {
	p, err := s.provider.Probability(block)
	if err != nil {
		return nil, err
	}
	isSpeech := p >= s.cfg.Threshold

	if !s.speechStarted {
		s.preRoll = append(s.preRoll, block)
		if len(s.preRoll) > s.preRollChunks {
			s.preRoll = s.preRoll[len(s.preRoll)-s.preRollChunks:]
		}
		if isSpeech {
			s.speechStarted = true
			s.utterance = append(append([][]int16{}, s.preRoll...), block)
			s.silenceChunks = 0
		}
		return nil, nil
	}

	s.utterance = append(s.utterance, block)
	if isSpeech {
		s.silenceChunks = 0
	} else {
		s.silenceChunks++
	}

	if len(s.utterance) >= s.maxUttChunks {
		s.silenceChunks = s.endSilenceChunks
	}

	if s.silenceChunks >= s.endSilenceChunks {
		defer s.Reset()
		if len(s.utterance) < s.minUttChunks {
			return nil, nil
		}
		return flattenNormalized(s.utterance), nil
	}
	return nil, nil
}

func flattenNormalized(blocks [][]int16) []float32 {
	total := 0
	for _, b := range blocks {
		total += len(b)
	}
	out := make([]float32, 0, total)
	for _, b := range blocks {
		for _, v := range b {
			out = append(out, float32(v)/32768.0)
		}
	}
	return out
}
