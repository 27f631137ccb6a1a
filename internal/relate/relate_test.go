package relate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/almuten/internal/aspect"
	"github.com/ppiankov/almuten/internal/dignity"
	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/sect"
	"github.com/ppiankov/almuten/internal/zodiac"
)

func pos(b model.Body, lon, speed float64) model.BodyPosition {
	return model.BodyPosition{
		Body:       b,
		Longitude:  lon,
		Speed:      speed,
		House:      int(zodiac.SignOf(lon)) + 1,
		Retrograde: speed < 0,
	}
}

// analyze runs the single-body passes the way the pipeline does, then the relationship pass
func analyze(t *testing.T, chartSect model.ChartSect, positions ...model.BodyPosition) model.ChartRelationships {
	t.Helper()
	cfg := model.DefaultConfig()

	sunLon := 0.0
	for _, p := range positions {
		if p.Body == model.Sun {
			sunLon = p.Longitude
		}
	}
	in := Input{
		Positions: positions,
		Dignity:   make(map[model.Body]model.DignityFacts),
		Sect:      make(map[model.Body]model.SectFacts),
		Aspects:   aspect.NewEngine(cfg.Aspects).All(positions),
	}
	for _, p := range positions {
		in.Dignity[p.Body] = dignity.Evaluate(p.Body, p.Longitude, chartSect)
		in.Sect[p.Body] = sect.Classify(p, sunLon, chartSect)
	}
	return NewAnalyzer(cfg.Relations).Analyze(in)
}

func hasInfluence(list []model.Influence, source model.Body, reason string) bool {
	for _, i := range list {
		if i.Source == source && i.Reason == reason {
			return true
		}
	}
	return false
}

func TestDominationAndEnclosureBySign(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 0, 1.0),
		pos(model.Venus, 10, 0.6),
		pos(model.Mercury, 48, 1.0),
		pos(model.Jupiter, 70, 0.2),
		pos(model.Mars, 109, -0.3),
		pos(model.Saturn, 270, 0.02),
		pos(model.Moon, 210, 13.0),
	)

	var found *model.Domination
	for _, d := range rel.Bodies[model.Sun].DominatedBy {
		if d.Dominator == model.Saturn {
			found = &d
		}
	}
	if found == nil {
		t.Fatal("expected Saturn in Capricorn to dominate the Sun in Aries")
	}
	if found.Kind != model.Square || !found.Decimation {
		t.Errorf("expected square decimation, got %+v", *found)
	}
	if !found.CounterRay {
		t.Error("expected a counter-ray from the exact square")
	}

	merc := rel.Bodies[model.Mercury]
	want := model.Enclosure{Mode: model.EnclosureBySign, Nature: model.Benefic, Behind: model.Venus, Ahead: model.Jupiter}
	if len(merc.Enclosures) == 0 || merc.Enclosures[0] != want {
		t.Errorf("expected %+v, got %+v", want, merc.Enclosures)
	}
	if !merc.Bonified || !hasInfluence(merc.Bonifications, model.Jupiter, "enclosure_by_sign") {
		t.Errorf("expected bonification by benefic enclosure, got %+v", merc.Bonifications)
	}
	// Mars is nocturnal in a day chart, so its sextile hurts
	if !merc.Maltreated || !hasInfluence(merc.Maltreatments, model.Mars, "ray_sextile") {
		t.Errorf("expected maltreatment by the out-of-sect Mars, got %+v", merc.Maltreatments)
	}
	if !hasInfluence(merc.Maltreatments, model.Mars, "applying") {
		t.Error("expected the applying Mars sextile to be recorded")
	}
}

func TestTranslationCollectionAndMaleficEnclosure(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 120, 1.0),
		pos(model.Moon, 5, 13.0),
		pos(model.Mercury, 350, 1.0),
		pos(model.Venus, 140, 0.6),
		pos(model.Mars, 275, -0.8),
		pos(model.Jupiter, 310, 0.2),
		pos(model.Saturn, 358, 0.05),
	)

	wantT := []model.Translation{
		{Translator: model.Sun, From: model.Saturn, To: model.Jupiter, NaturallyFastest: true},
		{Translator: model.Moon, From: model.Saturn, To: model.Jupiter, NaturallyFastest: true},
		{Translator: model.Moon, From: model.Mars, To: model.Jupiter, NaturallyFastest: true},
	}
	if diff := cmp.Diff(wantT, rel.Translations); diff != "" {
		t.Errorf("translations mismatch (-want +got):\n%s", diff)
	}

	wantC := []model.Collection{{
		Collector:                model.Saturn,
		A:                        model.Mars,
		B:                        model.Mercury,
		CollectorNaturallySlower: true,
		NaturallyFastest:         model.Mercury,
	}}
	if diff := cmp.Diff(wantC, rel.Collections); diff != "" {
		t.Errorf("collections mismatch (-want +got):\n%s", diff)
	}

	jup := rel.Bodies[model.Jupiter]
	want := model.Enclosure{Mode: model.EnclosureBySign, Nature: model.Malefic, Behind: model.Mars, Ahead: model.Saturn}
	if len(jup.Enclosures) == 0 || jup.Enclosures[0] != want {
		t.Fatalf("expected %+v, got %+v", want, jup.Enclosures)
	}
	if !jup.Maltreated {
		t.Error("malefic enclosure always maltreats")
	}
}

func TestTranslationBySlowerPlanet(t *testing.T) {
	// The Sun outpaces a slow Venus today but is naturally slower
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 95, 1.0),
		pos(model.Venus, 90, 0.3),
		pos(model.Saturn, 165, 0.03),
	)

	want := []model.Translation{{Translator: model.Sun, From: model.Venus, To: model.Saturn}}
	if diff := cmp.Diff(want, rel.Translations); diff != "" {
		t.Errorf("translations mismatch (-want +got):\n%s", diff)
	}
}

func TestCollectionByStationaryPlanet(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Mercury, 100, 0.01),
		pos(model.Jupiter, 38, 0.1),
		pos(model.Saturn, 192, -0.05),
	)

	want := []model.Collection{{
		Collector:        model.Mercury,
		A:                model.Saturn,
		B:                model.Jupiter,
		NaturallyFastest: model.Jupiter,
	}}
	if diff := cmp.Diff(want, rel.Collections); diff != "" {
		t.Errorf("collections mismatch (-want +got):\n%s", diff)
	}
}

func TestConjunctionAndDispositor(t *testing.T) {
	tests := []struct {
		name        string
		mercury     float64
		jupiter     float64
		conjunction bool
		dispositor  model.Body
		bonifies    bool
	}{
		{name: "same sign within orb", mercury: 10, jupiter: 12, conjunction: true, dispositor: model.Mars},
		{name: "across a sign boundary", mercury: 29.5, jupiter: 31, dispositor: model.Mars},
		{name: "same sign beyond orb", mercury: 5, jupiter: 12, dispositor: model.Mars},
		{name: "benefic dispositor", mercury: 350, jupiter: 12, dispositor: model.Jupiter, bonifies: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Mars is out of sect by day; Jupiter in Aries or Taurus is free of detriment and fall
			rel := analyze(t, model.DayChart,
				pos(model.Mercury, tt.mercury, 1.0),
				pos(model.Jupiter, tt.jupiter, 0.1),
				pos(model.Mars, 200, 0.5),
			)
			merc := rel.Bodies[model.Mercury]

			if got := hasInfluence(merc.Bonifications, model.Jupiter, "conjunction"); got != tt.conjunction {
				t.Errorf("expected conjunction=%v, got %+v", tt.conjunction, merc.Bonifications)
			}
			if tt.bonifies {
				if !hasInfluence(merc.Bonifications, tt.dispositor, "dispositor") {
					t.Errorf("expected %s to bonify as dispositor, got %+v", tt.dispositor, merc.Bonifications)
				}
			} else if !hasInfluence(merc.Maltreatments, tt.dispositor, "dispositor") {
				t.Errorf("expected %s to maltreat as dispositor, got %+v", tt.dispositor, merc.Maltreatments)
			}
		})
	}

	// A planet in its own domicile has no outside dispositor
	rel := analyze(t, model.DayChart, pos(model.Mars, 10, 0.5))
	if hasInfluence(rel.Bodies[model.Mars].Maltreatments, model.Mars, "dispositor") {
		t.Error("Mars in Aries should not dispose of itself")
	}

	// Only bodies present in the chart can dispose
	rel = analyze(t, model.DayChart, pos(model.Venus, 10, 1.0))
	if len(rel.Bodies[model.Venus].Maltreatments) != 0 {
		t.Errorf("expected no maltreatment from an absent Mars, got %+v", rel.Bodies[model.Venus].Maltreatments)
	}
}

func TestEnclosureByRay(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 100, 1.0),
		pos(model.Jupiter, 42, 0.1),
		pos(model.Venus, 155, 1.0),
	)

	sun := rel.Bodies[model.Sun]
	want := model.Enclosure{Mode: model.EnclosureByRay, Nature: model.Benefic, Behind: model.Venus, Ahead: model.Jupiter}
	found := false
	for _, e := range sun.Enclosures {
		if e == want {
			found = true
		}
	}
	if !found {
		t.Errorf("expected %+v, got %+v", want, sun.Enclosures)
	}
	if !hasInfluence(sun.Bonifications, model.Venus, "enclosure_by_ray") {
		t.Errorf("expected enclosure to bonify even from a fallen Venus, got %+v", sun.Bonifications)
	}
	if hasInfluence(sun.Bonifications, model.Venus, "ray_sextile") {
		t.Error("a fallen Venus should not bonify by ray")
	}
}

func TestReceptionAndGenerosity(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 78.15, 0.96),
		pos(model.Mercury, 100, 1.2),
	)

	want := []model.Reception{{
		Guest:      model.Sun,
		Host:       model.Mercury,
		Tiers:      []model.DignityTier{model.TierDomicile, model.TierTriplicity},
		Generosity: true,
	}}
	if diff := cmp.Diff(want, rel.Bodies[model.Sun].ReceivedBy); diff != "" {
		t.Errorf("reception mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, rel.Bodies[model.Mercury].Receives); diff != "" {
		t.Errorf("host view mismatch (-want +got):\n%s", diff)
	}
	if len(rel.MutualReceptions) != 0 {
		t.Errorf("expected no mutual reception, got %+v", rel.MutualReceptions)
	}
}

func TestMutualReception(t *testing.T) {
	rel := analyze(t, model.NightChart,
		pos(model.Venus, 10, 1.0),
		pos(model.Mars, 190, 0.5),
	)

	want := []model.MutualReception{{
		A:      model.Mars,
		B:      model.Venus,
		ATiers: []model.DignityTier{model.TierDomicile},
		BTiers: []model.DignityTier{model.TierDomicile},
		Aspect: model.Opposition,
	}}
	if diff := cmp.Diff(want, rel.MutualReceptions); diff != "" {
		t.Errorf("mutual reception mismatch (-want +got):\n%s", diff)
	}
	for _, r := range rel.Bodies[model.Venus].ReceivedBy {
		if r.Host == model.Mars && r.Generosity {
			t.Error("an aspected reception is not a generosity")
		}
	}
}

func TestFeral(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Sun, 0, 1.0),
		pos(model.Venus, 30, 0.6),
		pos(model.Mars, 330, -0.5),
		pos(model.Saturn, 150, 0.05),
		pos(model.Moon, 205, 13),
	)

	if !rel.Bodies[model.Sun].Feral {
		t.Error("expected the unaspected Sun to be feral")
	}
	// Moon pulls away from Saturn toward the exact sextile
	if rel.Bodies[model.Moon].Feral {
		t.Error("expected the Moon applying to Saturn not to be feral")
	}
}

func TestAntiscia(t *testing.T) {
	rel := analyze(t, model.DayChart,
		pos(model.Mercury, 88, 1.0), // 28° Gemini
		pos(model.Moon, 91, 13),     // 1° Cancer
		pos(model.Jupiter, 92, 0.1), // 2° Cancer
		pos(model.Venus, 350, 1.0),  // 20° Pisces
		pos(model.Mars, 9.5, 0.6),   // 9° Aries
	)

	want := []model.AntisciaHit{{Other: model.Moon}}
	if diff := cmp.Diff(want, rel.Bodies[model.Mercury].Antiscia); diff != "" {
		t.Errorf("Mercury antiscia mismatch (-want +got):\n%s", diff)
	}
	want = []model.AntisciaHit{{Other: model.Mercury}}
	if diff := cmp.Diff(want, rel.Bodies[model.Moon].Antiscia); diff != "" {
		t.Errorf("antiscia should be mutual (-want +got):\n%s", diff)
	}
	want = []model.AntisciaHit{{Other: model.Mars, Contra: true}}
	if diff := cmp.Diff(want, rel.Bodies[model.Venus].Antiscia); diff != "" {
		t.Errorf("Venus contra-antiscia mismatch (-want +got):\n%s", diff)
	}
}

func TestReflections(t *testing.T) {
	if got := Antiscion(88); got != 92 {
		t.Errorf("expected 92, got %v", got)
	}
	if got := ContraAntiscion(350); got != 10 {
		t.Errorf("expected 10, got %v", got)
	}
}

func TestDomicileAversion(t *testing.T) {
	tests := []struct {
		name      string
		positions []model.BodyPosition
		body      model.Body
		sign      model.Sign
		averse    bool
		avoidedBy string
	}{
		{
			name:      "square sees its domicile",
			positions: []model.BodyPosition{pos(model.Mars, 270, 0.5)},
			body:      model.Mars,
			sign:      model.Aries,
		},
		{
			name:      "trine counted backwards sees its domicile",
			positions: []model.BodyPosition{pos(model.Mercury, 270, 1.0)},
			body:      model.Mercury,
			sign:      model.Virgo,
		},
		{
			name:      "avoided by antiscia",
			positions: []model.BodyPosition{pos(model.Mars, 165, 0.5)},
			body:      model.Mars,
			sign:      model.Aries,
			averse:    true,
			avoidedBy: "antiscia",
		},
		{
			name: "avoided by translation",
			positions: []model.BodyPosition{
				pos(model.Mercury, 270, 1.0),
				pos(model.Mars, 80, 0.5),
				pos(model.Moon, 338, 13),
			},
			body:      model.Mercury,
			sign:      model.Gemini,
			averse:    true,
			avoidedBy: "translation:Moon",
		},
		{
			name:      "averse without remedy",
			positions: []model.BodyPosition{pos(model.Mercury, 220, 1.0)},
			body:      model.Mercury,
			sign:      model.Gemini,
			averse:    true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rel := analyze(t, model.DayChart, tt.positions...)
			var got *model.DomicileAversion
			for _, da := range rel.Bodies[tt.body].DomicileAversions {
				if da.Sign == tt.sign {
					got = &da
				}
			}
			if got == nil {
				t.Fatalf("no aversion record for %s", tt.sign)
			}
			if got.Averse != tt.averse || got.AvoidedBy != tt.avoidedBy {
				t.Errorf("expected averse=%v avoided_by=%q, got %+v", tt.averse, tt.avoidedBy, *got)
			}
		})
	}
}

func TestAnalyzeOrderIndependent(t *testing.T) {
	positions := []model.BodyPosition{
		pos(model.Sun, 120, 1.0),
		pos(model.Moon, 5, 13.0),
		pos(model.Mercury, 350, 1.0),
		pos(model.Venus, 140, 0.6),
		pos(model.Mars, 275, -0.8),
		pos(model.Jupiter, 310, 0.2),
		pos(model.Saturn, 358, 0.05),
	}
	reversed := make([]model.BodyPosition, len(positions))
	for i, p := range positions {
		reversed[len(positions)-1-i] = p
	}

	a := analyze(t, model.DayChart, positions...)
	b := analyze(t, model.DayChart, reversed...)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("relationships depend on input order:\n%s", diff)
	}
}
