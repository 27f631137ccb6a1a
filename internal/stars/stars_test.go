package stars

import (
	"testing"

	"github.com/ppiankov/almuten/internal/model"
)

var catalog = []model.StarPosition{
	{Name: "Regulus", Longitude: 149.83, Magnitude: 1.35},
	{Name: "Algenubi", Longitude: 140.7, Magnitude: 2.98},
	{Name: "Alphard", Longitude: 147.28, Magnitude: 1.98},
	{Name: "Scheat", Longitude: 359.4, Magnitude: 2.42},
}

func TestConjunctions(t *testing.T) {
	l := NewLocator(model.StarConfig{Orb: 3, MaxMagnitude: 2.5}, catalog)
	if l.Len() != 3 {
		t.Fatalf("expected the 2.98 magnitude star to be dropped, kept %d", l.Len())
	}

	hits := l.Conjunctions(149)
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %+v", hits)
	}
	if hits[0].Star != "Regulus" || hits[1].Star != "Alphard" {
		t.Errorf("expected Regulus before Alphard, got %s, %s", hits[0].Star, hits[1].Star)
	}
	if hits[0].Orb < 0.829 || hits[0].Orb > 0.831 {
		t.Errorf("expected orb 0.83, got %v", hits[0].Orb)
	}
}

func TestConjunctions_Symmetric(t *testing.T) {
	l := NewLocator(model.StarConfig{Orb: 3, MaxMagnitude: 2.5}, catalog)

	tests := []struct {
		name string
		lon  float64
		want int
	}{
		{"ahead of star", 152.5, 1},
		{"behind star", 147.0, 2},
		{"across Aries point", 1.5, 1},
		{"outside orb", 153.0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(l.Conjunctions(tt.lon)); got != tt.want {
				t.Errorf("expected %d hits at %.1f, got %d", tt.want, tt.lon, got)
			}
		})
	}
}
