package sect

import (
	"testing"

	"github.com/ppiankov/almuten/internal/model"
)

func TestClassify_SunInSeventhDayChart(t *testing.T) {
	sun := model.BodyPosition{Body: model.Sun, Longitude: 78.15, House: 7}
	chart := ChartSect(sun.House)
	if chart != model.DayChart {
		t.Fatalf("expected day chart, got %s", chart)
	}

	f := Classify(sun, sun.Longitude, chart)
	if !f.InSect {
		t.Error("expected the Sun in sect in a day chart")
	}
	if !f.Halb {
		t.Error("expected halb")
	}
	if !f.Hayz {
		t.Error("expected hayz: diurnal, above the horizon, masculine sign")
	}
	if f.Orientation != model.OrientationNone {
		t.Errorf("expected no orientation for the Sun, got %s", f.Orientation)
	}
}

func TestOrientation(t *testing.T) {
	tests := []struct {
		name string
		lon  float64
		sun  float64
		want model.Orientation
	}{
		{"behind the Sun rises first", 70, 80, model.Oriental},
		{"ahead of the Sun", 90, 80, model.Occidental},
		{"wraps past Aries", 355, 5, model.Oriental},
		{"exact conjunction", 80, 80, model.OrientationNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Orientation(model.Mars, tt.lon, tt.sun); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestMercurySectFollowsOrientation(t *testing.T) {
	if PlanetSect(model.Mercury, model.Oriental) != model.Diurnal {
		t.Error("expected oriental Mercury to be diurnal")
	}
	if PlanetSect(model.Mercury, model.Occidental) != model.Nocturnal {
		t.Error("expected occidental Mercury to be nocturnal")
	}
}

func TestHalbWithoutHayz(t *testing.T) {
	// Saturn above the horizon in a day chart but in a feminine sign
	saturn := model.BodyPosition{Body: model.Saturn, Longitude: 40, House: 10}
	f := Classify(saturn, 100, model.DayChart)
	if !f.Halb {
		t.Error("expected halb")
	}
	if f.Hayz {
		t.Error("expected no hayz in a feminine sign")
	}
}

func TestOutOfSect(t *testing.T) {
	mars := model.BodyPosition{Body: model.Mars, Longitude: 10, House: 9}
	f := Classify(mars, 100, model.DayChart)
	if f.InSect || f.Halb || f.Hayz {
		t.Errorf("expected nocturnal Mars out of sect in a day chart, got %+v", f)
	}
}

func TestHayzImpliesHalb(t *testing.T) {
	for _, b := range model.Bodies() {
		for house := 1; house <= 12; house++ {
			for lon := 0.0; lon < 360; lon += 7.5 {
				for _, sun := range []float64{0, 95, 200, 310} {
					pos := model.BodyPosition{Body: b, Longitude: lon, House: house}
					for _, chart := range []model.ChartSect{model.DayChart, model.NightChart} {
						f := Classify(pos, sun, chart)
						if f.Hayz && !f.Halb {
							t.Fatalf("%s at %v house %d: hayz without halb", b, lon, house)
						}
					}
				}
			}
		}
	}
}
