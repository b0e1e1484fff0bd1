package audio

import "testing"

func TestResolveDeviceEmptySelectorIsDefault(t *testing.T) {
	idx, err := ResolveDevice(nil, "")
	if err != nil || idx != -1 {
		t.Fatalf("got idx=%d err=%v, want -1,nil", idx, err)
	}
}

func TestResolveDeviceByIndex(t *testing.T) {
	idx, err := ResolveDevice(nil, "3")
	if err != nil || idx != 3 {
		t.Fatalf("got idx=%d err=%v, want 3,nil", idx, err)
	}
}

func TestResolveDeviceBySubstring(t *testing.T) {
	devices := []DeviceInfo{
		{Index: 0, Name: "Built-in Microphone"},
		{Index: 1, Name: "USB Headset Mic"},
	}
	idx, err := ResolveDevice(devices, "headset")
	if err != nil || idx != 1 {
		t.Fatalf("got idx=%d err=%v, want 1,nil", idx, err)
	}
}

func TestResolveDeviceNoMatchErrors(t *testing.T) {
	devices := []DeviceInfo{{Index: 0, Name: "Built-in Microphone"}}
	if _, err := ResolveDevice(devices, "bluetooth"); err == nil {
		t.Fatal("expected error for unmatched selector")
	}
}

func TestIsDigits(t *testing.T) {
	cases := map[string]bool{
		"123": true,
		"":    false,
		"12a": false,
		"0":   true,
	}
	for s, want := range cases {
		if got := isDigits(s); got != want {
			t.Errorf("isDigits(%q) = %v, want %v", s, got, want)
		}
	}
}
