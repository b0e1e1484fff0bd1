package audio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gen2brain/malgo"
)

// DeviceInfo is a flattened view of a malgo device, used for --list-devices
// and selector resolution.
type DeviceInfo struct {
	Index int
	Name  string
	ID    malgo.DeviceID
}

// ListCaptureDevices enumerates capture devices through an initialized
// malgo context.
func ListCaptureDevices(mctx *malgo.AllocatedContext) ([]DeviceInfo, error) {
	return listDevices(mctx, malgo.Capture)
}

// ListPlaybackDevices enumerates playback devices through an initialized
// malgo context.
func ListPlaybackDevices(mctx *malgo.AllocatedContext) ([]DeviceInfo, error) {
	return listDevices(mctx, malgo.Playback)
}

func listDevices(mctx *malgo.AllocatedContext, kind malgo.DeviceType) ([]DeviceInfo, error) {
	infos, err := mctx.Devices(kind)
	if err != nil {
		return nil, fmt.Errorf("audio: enumerate devices: %w", err)
	}
	out := make([]DeviceInfo, len(infos))
	for i, info := range infos {
		out[i] = DeviceInfo{Index: i, Name: info.Name(), ID: info.ID}
	}
	return out, nil
}

// ResolveDevice mirrors original_source/app.py's resolve_device: the
// selector may be empty (→ default device, index -1), a decimal index, or
// a case-insensitive substring of a device name. Returns an error if a
// non-empty, non-numeric selector matches nothing.
func ResolveDevice(devices []DeviceInfo, selector string) (int, error) {
	s := strings.TrimSpace(selector)
	if s == "" {
		return -1, nil
	}
	if isDigits(s) {
		idx, err := strconv.Atoi(s)
		if err != nil {
			return -1, fmt.Errorf("audio: invalid device index %q", s)
		}
		return idx, nil
	}
	key := strings.ToLower(s)
	for _, d := range devices {
		if strings.Contains(strings.ToLower(d.Name), key) {
			return d.Index, nil
		}
	}
	return -1, fmt.Errorf("audio: no device matches selector %q", selector)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
