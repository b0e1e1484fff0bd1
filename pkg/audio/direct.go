package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gen2brain/malgo"
)

// DuplexDevice is the direct-backend AudioSource and Player combined onto a
// single malgo duplex device: capture and playback share one device
// callback instead of two independent streams. The capture half pushes
// into a bounded, drop-newest-on-full channel; the playback half drains a
// byte buffer filled by Play.
type DuplexDevice struct {
	sampleRate int
	blockSize  int

	mctx   *malgo.AllocatedContext
	device *malgo.Device

	blocks chan PcmBlock

	playMu  sync.Mutex
	playBuf []byte

	started bool
	mu      sync.Mutex
}

// NewDuplexDevice configures (but does not start) a duplex capture/playback
// device at the given sample rate and capture block size. captureDeviceIdx/
// playbackDeviceIdx are device indexes the caller has already resolved (e.g.
// with ResolveDevice); pass -1 for the platform default.
func NewDuplexDevice(sampleRate, blockSize int, captureDeviceIdx, playbackDeviceIdx int) (*DuplexDevice, error) {
	mctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: init context: %v", ErrDeviceUnavailable, err)
	}

	d := &DuplexDevice{
		sampleRate: sampleRate,
		blockSize:  blockSize,
		mctx:       mctx,
		blocks:     make(chan PcmBlock, 256),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Duplex)
	deviceConfig.Capture.Format = malgo.FormatS16
	deviceConfig.Capture.Channels = 1
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = 1
	deviceConfig.SampleRate = uint32(sampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(blockSize)
	deviceConfig.Alsa.NoMMap = 1

	if captureDeviceIdx >= 0 {
		if infos, derr := mctx.Devices(malgo.Capture); derr == nil && captureDeviceIdx < len(infos) {
			deviceConfig.Capture.DeviceID = infos[captureDeviceIdx].ID.Pointer()
		}
	}
	if playbackDeviceIdx >= 0 {
		if infos, derr := mctx.Devices(malgo.Playback); derr == nil && playbackDeviceIdx < len(infos) {
			deviceConfig.Playback.DeviceID = infos[playbackDeviceIdx].ID.Pointer()
		}
	}

	device, err := malgo.InitDevice(mctx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: d.onSamples,
	})
	if err != nil {
		mctx.Uninit()
		return nil, fmt.Errorf("%w: init device: %v", ErrDeviceUnavailable, err)
	}
	d.device = device
	return d, nil
}

func (d *DuplexDevice) onSamples(pOutput, pInput []byte, _ uint32) {
	if pInput != nil {
		samples := make([]int16, len(pInput)/2)
		for i := range samples {
			samples[i] = int16(pInput[2*i]) | int16(pInput[2*i+1])<<8
		}
		select {
		case d.blocks <- PcmBlock{Samples: samples, SampleRate: d.sampleRate}:
		default:
			// Queue full: drop the newest block, never block the callback.
		}
	}
	if pOutput != nil {
		d.playMu.Lock()
		n := copy(pOutput, d.playBuf)
		d.playBuf = d.playBuf[n:]
		for i := n; i < len(pOutput); i++ {
			pOutput[i] = 0
		}
		d.playMu.Unlock()
	}
}

// Start begins capture+playback.
func (d *DuplexDevice) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return nil
	}
	if err := d.device.Start(); err != nil {
		return fmt.Errorf("%w: start device: %v", ErrDeviceUnavailable, err)
	}
	d.started = true
	return nil
}

// Stop is idempotent and releases all OS resources.
func (d *DuplexDevice) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.started {
		return
	}
	d.device.Uninit()
	d.mctx.Uninit()
	d.started = false
}

// Read returns the next captured block or ok=false on timeout.
func (d *DuplexDevice) Read(timeout time.Duration) (PcmBlock, bool) {
	select {
	case b := <-d.blocks:
		return b, true
	case <-time.After(timeout):
		return PcmBlock{}, false
	}
}

// Clear drains all pending blocks without blocking.
func (d *DuplexDevice) Clear() {
	for {
		select {
		case <-d.blocks:
		default:
			return
		}
	}
}

// Play appends pcm (resampled to the device's sample rate if needed) to the
// playback buffer and blocks until the device has drained it.
func (d *DuplexDevice) Play(pcm []byte, sampleRate int) error {
	if sampleRate != d.sampleRate {
		pcm = resamplePCMBytes(pcm, sampleRate, d.sampleRate)
	}
	d.playMu.Lock()
	d.playBuf = append(d.playBuf, pcm...)
	d.playMu.Unlock()

	// Block until drained; the callback drains at device rate, so poll at a
	// short interval rather than busy-spinning.
	for {
		d.playMu.Lock()
		remaining := len(d.playBuf)
		d.playMu.Unlock()
		if remaining == 0 {
			return nil
		}
		time.Sleep(10 * time.Millisecond)
	}
}
