package alsa

import "testing"

const aplayOutput = `**** List of PLAYBACK Hardware Devices ****
card 0: Headphones [bcm2835 Headphones], device 0: bcm2835 Headphones [bcm2835 Headphones]
  Subdevices: 8/8
  Subdevice #0: subdevice #0
card 3: UACDemoV10 [UACDemoV1.0], device 0: USB Audio [USB Audio]
  Subdevices: 1/1
  Subdevice #0: subdevice #0
`

const arecordOutput = `**** List of CAPTURE Hardware Devices ****
card 1: Device [USB PnP Sound Device], device 0: USB Audio [USB Audio]
  Subdevices: 1/1
  Subdevice #0: subdevice #0
`

func TestParseCardList_Playback(t *testing.T) {
	devices := parseCardList([]byte(aplayOutput))
	if len(devices) != 2 {
		t.Fatalf("got %d devices, want 2: %v", len(devices), devices)
	}

	if devices[0].Card != 0 || devices[0].Number != 0 || devices[0].CardName != "bcm2835 Headphones" {
		t.Errorf("first device: got %+v", devices[0])
	}
	if devices[1].Card != 3 || devices[1].ID() != "hw:3,0" {
		t.Errorf("second device: got %+v", devices[1])
	}
}

func TestParseCardList_Capture(t *testing.T) {
	devices := parseCardList([]byte(arecordOutput))
	if len(devices) != 1 {
		t.Fatalf("got %d devices, want 1: %v", len(devices), devices)
	}
	d := devices[0]
	if d.ID() != "hw:1,0" || d.CardName != "USB PnP Sound Device" || d.Name != "USB Audio" {
		t.Errorf("device: got %+v", d)
	}
}

func TestParseCardList_Empty(t *testing.T) {
	if devices := parseCardList([]byte("**** List of PLAYBACK Hardware Devices ****\n")); len(devices) != 0 {
		t.Errorf("got %v, want none", devices)
	}
}

func TestDeviceString(t *testing.T) {
	d := Device{Card: 1, Number: 0, CardName: "USB PnP Sound Device", Name: "USB Audio"}
	want := "hw:1,0 (USB PnP Sound Device: USB Audio)"
	if got := d.String(); got != want {
		t.Errorf("String: got %q, want %q", got, want)
	}
}
