package textplane

import (
	"errors"
	"image/color"
	"math"
	"testing"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1.0/512
}

func TestColorFromARGB(t *testing.T) {
	tests := []struct {
		argb uint32
		want [4]float32
	}{
		{0xff000000, [4]float32{0, 0, 0, 1}},
		{0xffffffff, [4]float32{1, 1, 1, 1}},
		{0x80ff0000, [4]float32{1, 0, 0, 128.0 / 255}},
		{0x00336699, [4]float32{0x33 / 255.0, 0x66 / 255.0, 0x99 / 255.0, 0}},
	}
	for _, tt := range tests {
		got := ColorFromARGB(tt.argb)
		if got != tt.want {
			t.Errorf("ColorFromARGB(%#08x) = %v, want %v", tt.argb, got, tt.want)
		}
		if back := ColorToARGB(got); back != tt.argb {
			t.Errorf("ColorToARGB(%v) = %#08x, want %#08x", got, back, tt.argb)
		}
	}
}

func TestColorToARGBClamps(t *testing.T) {
	if got := ColorToARGB([4]float32{2, -1, 0.5, 1}); got != 0xffff0080 {
		t.Errorf("ColorToARGB = %#08x, want 0xffff0080", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want [4]float32
	}{
		{"#ff0000", [4]float32{1, 0, 0, 1}},
		{"00ff00", [4]float32{0, 1, 0, 1}},
		{"#fff", [4]float32{1, 1, 1, 1}},
		{"#0000ff80", [4]float32{0, 0, 1, 128.0 / 255}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if err != nil {
				t.Fatalf("ParseColor: %v", err)
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
					break
				}
			}
		})
	}
}

func TestParseColorInvalid(t *testing.T) {
	for _, in := range []string{"", "#12", "#zzzzzz", "#12345678x"} {
		if _, err := ParseColor(in); !errors.Is(err, ErrInvalidColor) {
			t.Errorf("ParseColor(%q) err = %v, want ErrInvalidColor", in, err)
		}
	}
}

func TestColorFromStd(t *testing.T) {
	got := ColorFromStd(color.NRGBA{R: 255, G: 0, B: 0, A: 128})
	want := [4]float32{1, 0, 0, 128.0 / 255}
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("ColorFromStd = %v, want %v", got, want)
		}
	}
	if got := ColorFromStd(color.Transparent); got != ([4]float32{}) {
		t.Errorf("transparent = %v, want zero", got)
	}
}
