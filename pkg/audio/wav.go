package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// NewWavBuffer wraps mono 16-bit PCM in a minimal 44-byte RIFF/WAVE header.
func NewWavBuffer(pcm []byte, sampleRate int) []byte {
	buf := new(bytes.Buffer)

	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// DecodeWav reads a PCM-16 mono/multi-channel RIFF/WAVE buffer produced by
// an external tool (piper, ffmpeg) and returns the raw PCM bytes, the
// sample rate and channel count. Only uncompressed 16-bit PCM (fmt tag 1)
// is supported, matching tts_piper.py's own "unsupported sample width"
// check.
func DecodeWav(buf []byte) (pcm []byte, sampleRate int, channels int, err error) {
	r := bytes.NewReader(buf)
	var riff [4]byte
	if _, err = r.Read(riff[:]); err != nil || string(riff[:]) != "RIFF" {
		return nil, 0, 0, fmt.Errorf("audio: not a RIFF file")
	}
	var sz uint32
	binary.Read(r, binary.LittleEndian, &sz)
	var wave [4]byte
	if _, err = r.Read(wave[:]); err != nil || string(wave[:]) != "WAVE" {
		return nil, 0, 0, fmt.Errorf("audio: not a WAVE file")
	}

	var bitsPerSample uint16
	var audioFormat uint16
	for {
		var chunkID [4]byte
		if _, err := r.Read(chunkID[:]); err != nil {
			return nil, 0, 0, fmt.Errorf("audio: missing data chunk")
		}
		var chunkSize uint32
		binary.Read(r, binary.LittleEndian, &chunkSize)

		switch string(chunkID[:]) {
		case "fmt ":
			var ch, sr, br uint32
			var blockAlign uint16
			binary.Read(r, binary.LittleEndian, &audioFormat)
			var numChannels uint16
			binary.Read(r, binary.LittleEndian, &numChannels)
			ch = uint32(numChannels)
			binary.Read(r, binary.LittleEndian, &sr)
			binary.Read(r, binary.LittleEndian, &br)
			binary.Read(r, binary.LittleEndian, &blockAlign)
			binary.Read(r, binary.LittleEndian, &bitsPerSample)
			channels = int(ch)
			sampleRate = int(sr)
			if chunkSize > 16 {
				r.Seek(int64(chunkSize-16), 1)
			}
		case "data":
			if audioFormat != 1 || bitsPerSample != 16 {
				return nil, 0, 0, fmt.Errorf("audio: unsupported wav format tag=%d bits=%d", audioFormat, bitsPerSample)
			}
			pcm = make([]byte, chunkSize)
			if _, err := r.Read(pcm); err != nil {
				return nil, 0, 0, fmt.Errorf("audio: read data chunk: %w", err)
			}
			return pcm, sampleRate, channels, nil
		default:
			r.Seek(int64(chunkSize), 1)
		}
	}
}
