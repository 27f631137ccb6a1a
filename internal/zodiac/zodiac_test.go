package zodiac

import (
	"math"
	"testing"

	"github.com/ppiankov/almuten/internal/model"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-10, 350},
		{725, 5},
		{359.5, 359.5},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("Normalize(%v): expected %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestSignOf(t *testing.T) {
	if s := SignOf(78.15); s != model.Gemini {
		t.Errorf("expected Gemini, got %v", s)
	}
	if s := SignOf(359.99); s != model.Pisces {
		t.Errorf("expected Pisces, got %v", s)
	}
	if s := SignOf(-0.5); s != model.Pisces {
		t.Errorf("expected Pisces for negative input, got %v", s)
	}
}

func TestSeparationAndSigned(t *testing.T) {
	if d := Separation(350, 10); math.Abs(d-20) > 1e-9 {
		t.Errorf("expected 20, got %v", d)
	}
	if d := Separation(0, 180); d != 180 {
		t.Errorf("expected 180, got %v", d)
	}
	if d := Signed(350, 10); math.Abs(d-20) > 1e-9 {
		t.Errorf("expected +20, got %v", d)
	}
	if d := Signed(10, 350); math.Abs(d+20) > 1e-9 {
		t.Errorf("expected -20, got %v", d)
	}
}

func TestSignDistance(t *testing.T) {
	if d := SignDistance(model.Capricorn, model.Aries); d != 3 {
		t.Errorf("expected 3, got %d", d)
	}
	if d := SignDistance(model.Aries, model.Capricorn); d != 9 {
		t.Errorf("expected 9, got %d", d)
	}
}

func TestFormat(t *testing.T) {
	d, m, s := Format(78.15)
	if d != 18 || m != 9 || s != model.Gemini {
		t.Errorf("expected 18°09' Gemini, got %d°%02d' %v", d, m, s)
	}
}
