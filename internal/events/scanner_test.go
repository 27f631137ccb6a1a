package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type motion struct {
	lon   float64 // longitude at epoch
	speed float64 // degrees per day
}

// linearLocator moves every body at constant speed from epoch
type linearLocator struct {
	bodies map[model.Body]motion
	err    error
}

func (l *linearLocator) Position(_ context.Context, b model.Body, t time.Time) (model.Coordinates, error) {
	if l.err != nil {
		return model.Coordinates{}, l.err
	}
	m, ok := l.bodies[b]
	if !ok {
		return model.Coordinates{}, errors.New("no such body")
	}
	days := t.Sub(epoch).Hours() / 24
	return model.Coordinates{Longitude: zodiac.Normalize(m.lon + m.speed*days), Speed: m.speed}, nil
}

func testConfig() model.EventsConfig {
	return model.DefaultConfig().Events
}

func near(a, b time.Time) bool {
	d := a.Sub(b)
	if d < 0 {
		d = -d
	}
	return d <= 10*time.Second
}

func hours(h float64) time.Time {
	return epoch.Add(time.Duration(h * float64(time.Hour)))
}

func TestScan_Ingress(t *testing.T) {
	loc := &linearLocator{bodies: map[model.Body]motion{
		model.Sun:  {lon: 29.5, speed: 1},
		model.Moon: {lon: 100, speed: 0},
	}}
	s := NewScanner(loc, testConfig(), 2, nil)

	events, err := s.Scan(context.Background(), epoch, hours(48), []model.Body{model.Moon, model.Sun})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d: %+v", len(events), events)
	}
	e := events[0]
	if e.Kind != model.EventIngress || e.Body != model.Sun || e.Sign != model.Taurus {
		t.Errorf("unexpected event %+v", e)
	}
	if !near(e.Time, hours(12)) {
		t.Errorf("expected ingress near %s, got %s", hours(12), e.Time)
	}
	if e.Retrograde {
		t.Error("expected direct ingress")
	}
}

func TestScan_RetrogradeIngress(t *testing.T) {
	loc := &linearLocator{bodies: map[model.Body]motion{
		model.Saturn: {lon: 30.2, speed: -0.5},
	}}
	s := NewScanner(loc, testConfig(), 1, nil)

	events, err := s.Scan(context.Background(), epoch, hours(24), []model.Body{model.Saturn})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	e := events[0]
	if e.Sign != model.Aries || !e.Retrograde {
		t.Errorf("expected retrograde ingress into Aries, got %+v", e)
	}
	if !near(e.Time, hours(9.6)) {
		t.Errorf("expected ingress near %s, got %s", hours(9.6), e.Time)
	}
}

func TestScan_ExactAspects(t *testing.T) {
	tests := []struct {
		name    string
		sun     motion
		moon    motion
		end     float64
		want    []model.EventKind
		times   []float64
		aspects []model.AspectKind
	}{
		{
			name:    "sextile after ingress",
			sun:     motion{lon: 0, speed: 1},
			moon:    motion{lon: 50, speed: 13},
			end:     48,
			want:    []model.EventKind{model.EventIngress, model.EventAspect},
			times:   []float64{24 * 10.0 / 13, 20},
			aspects: []model.AspectKind{"", model.Sextile},
		},
		{
			name:    "square from the far side",
			sun:     motion{lon: 5, speed: 0},
			moon:    motion{lon: 263, speed: 12},
			end:     30,
			want:    []model.EventKind{model.EventIngress, model.EventAspect},
			times:   []float64{14, 24},
			aspects: []model.AspectKind{"", model.Square},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc := &linearLocator{bodies: map[model.Body]motion{model.Sun: tt.sun, model.Moon: tt.moon}}
			s := NewScanner(loc, testConfig(), 2, nil)

			events, err := s.Scan(context.Background(), epoch, hours(tt.end), []model.Body{model.Sun, model.Moon})
			if err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if len(events) != len(tt.want) {
				t.Fatalf("expected %d events, got %d: %+v", len(tt.want), len(events), events)
			}
			for i, e := range events {
				if e.Kind != tt.want[i] {
					t.Errorf("event %d: expected %s, got %s", i, tt.want[i], e.Kind)
				}
				if !near(e.Time, hours(tt.times[i])) {
					t.Errorf("event %d: expected near %s, got %s", i, hours(tt.times[i]), e.Time)
				}
				if e.Aspect != tt.aspects[i] {
					t.Errorf("event %d: expected aspect %q, got %q", i, tt.aspects[i], e.Aspect)
				}
				if e.Kind == model.EventAspect && (e.Body != model.Sun || e.Other != model.Moon) {
					t.Errorf("event %d: expected Sun/Moon pair, got %s/%s", i, e.Body, e.Other)
				}
			}
		})
	}
}

func TestScan_ChunkBoundary(t *testing.T) {
	loc := &linearLocator{bodies: map[model.Body]motion{
		model.Sun:  {lon: 0, speed: 0},
		model.Moon: {lon: 348, speed: 12},
	}}
	cfg := testConfig()
	cfg.ChunkDays = 1
	s := NewScanner(loc, cfg, 3, nil)

	events, err := s.Scan(context.Background(), epoch, hours(72), []model.Body{model.Moon, model.Sun})
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != model.EventAspect || events[0].Aspect != model.Conjunction {
		t.Errorf("expected conjunction first, got %+v", events[0])
	}
	if events[1].Kind != model.EventIngress || events[1].Body != model.Moon || events[1].Sign != model.Aries {
		t.Errorf("expected Moon ingress into Aries, got %+v", events[1])
	}
	for _, e := range events {
		if !e.Time.Equal(hours(24)) {
			t.Errorf("expected event at %s, got %s", hours(24), e.Time)
		}
	}
}

func TestScan_Errors(t *testing.T) {
	loc := &linearLocator{bodies: map[model.Body]motion{model.Sun: {lon: 0, speed: 1}}}
	s := NewScanner(loc, testConfig(), 1, nil)

	if _, err := s.Scan(context.Background(), epoch, epoch, []model.Body{model.Sun}); !errors.Is(err, model.ErrInput) {
		t.Errorf("expected input error for empty range, got %v", err)
	}
	if _, err := s.Scan(context.Background(), epoch, hours(1), []model.Body{"Pluto"}); !errors.Is(err, model.ErrInput) {
		t.Errorf("expected input error for unknown body, got %v", err)
	}

	wantErr := errors.New("table exhausted")
	failing := NewScanner(&linearLocator{err: wantErr}, testConfig(), 1, nil)
	if _, err := failing.Scan(context.Background(), epoch, hours(3), []model.Body{model.Sun}); !errors.Is(err, wantErr) {
		t.Errorf("expected locator error, got %v", err)
	}

	bad := testConfig()
	bad.StepMinutes = 0
	if _, err := NewScanner(loc, bad, 1, nil).Scan(context.Background(), epoch, hours(1), []model.Body{model.Sun}); !errors.Is(err, model.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}

func TestScan_Cancelled(t *testing.T) {
	loc := &linearLocator{bodies: map[model.Body]motion{model.Sun: {lon: 0, speed: 1}}}
	s := NewScanner(loc, testConfig(), 1, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := s.Scan(ctx, epoch, hours(240), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
