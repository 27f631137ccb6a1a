package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
)

// Renderer turns reports into JSON, Markdown and console text
type Renderer struct{}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	return &Renderer{}
}

// RenderJSON writes the report as indented JSON
func (r *Renderer) RenderJSON(report *model.Report, path string) error {
	var buf bytes.Buffer
	if err := r.WriteJSON(&buf, report); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}

// WriteJSON encodes the report to w
func (r *Renderer) WriteJSON(w io.Writer, report *model.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// RenderMarkdown writes the report as a Markdown document
func (r *Renderer) RenderMarkdown(report *model.Report, path string) error {
	var buf bytes.Buffer
	r.WriteMarkdown(&buf, report)
	return os.WriteFile(path, buf.Bytes(), 0644)
}

func formatLon(lon float64) string {
	d, m, s := zodiac.Format(lon)
	return fmt.Sprintf("%02d°%02d' %s", d, m, s)
}

func joinBodies(bodies []model.Body) string {
	parts := make([]string, len(bodies))
	for i, b := range bodies {
		parts[i] = string(b)
	}
	return strings.Join(parts, ", ")
}

func flags(pairs ...any) string {
	var out []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if on, _ := pairs[i+1].(bool); on {
			out = append(out, pairs[i].(string))
		}
	}
	if len(out) == 0 {
		return "-"
	}
	return strings.Join(out, ", ")
}

// WriteMarkdown renders the full report as Markdown
func (r *Renderer) WriteMarkdown(w io.Writer, report *model.Report) {
	c := report.Chart
	fmt.Fprintf(w, "# %s\n\n", c.Name)
	fmt.Fprintf(w, "- **Time (UTC):** %s\n", c.Time.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "- **Place:** %.4f, %.4f\n", c.Latitude, c.Longitude)
	fmt.Fprintf(w, "- **Houses:** %s, Ascendant %s, MC %s\n", report.Houses.System, formatLon(report.Houses.Ascendant), formatLon(report.Houses.MC))
	fmt.Fprintf(w, "- **Sect:** %s chart\n", report.ChartSect)
	fmt.Fprintf(w, "- **Planetary day / hour:** %s / %s (hour %d)\n", report.Planetary.DayRuler, report.Planetary.HourRuler, report.Planetary.Hour)
	fmt.Fprintf(w, "- **Prenatal syzygy:** %s moon at %s\n", report.Syzygy.Kind, formatLon(report.Syzygy.Longitude))
	fmt.Fprintf(w, "- **Run:** %s\n\n", report.RunID)

	fmt.Fprintf(w, "## Almuten Figuris: %s\n\n", report.Score.Almuten)
	if len(report.Score.Contenders) > 1 {
		fmt.Fprintf(w, "Tied at the top: %s.\n\n", joinBodies(report.Score.Contenders))
	}

	fmt.Fprintf(w, "## Planets\n\n")
	fmt.Fprintf(w, "| Planet | Position | House | Dignity | Debility | Sect | Motion | Phase | Stars |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|---|---|\n")
	for _, b := range report.Bodies {
		d, s, m := b.Dignity, b.Sect, b.Motion
		retro := ""
		if b.Position.Retrograde {
			retro = " R"
		}
		var stars []string
		for _, h := range b.Stars {
			stars = append(stars, fmt.Sprintf("%s (%.1f°)", h.Star, h.Orb))
		}
		fmt.Fprintf(w, "| %s | %s%s | %d | %s | %s | %s | %s %s | %s | %s |\n",
			b.Position.Body, formatLon(b.Position.Longitude), retro, b.Position.House,
			flags("domicile", d.Domicile, "exalted", d.Exalted, "triplicity", d.InTriplicity, "term", d.InTerm, "face", d.InFace, "peregrine", d.Peregrine),
			flags("detriment", d.Detriment, "fall", d.Fall),
			flags("in sect", s.InSect, "halb", s.Halb, "hayz", s.Hayz),
			m.Direction, m.SpeedClass,
			m.Phase.Label,
			strings.Join(stars, ", "))
	}

	fmt.Fprintf(w, "\n## Aspects\n\n")
	if len(report.Aspects) == 0 {
		fmt.Fprintf(w, "No aspects within orb.\n")
	} else {
		fmt.Fprintf(w, "| From | Aspect | To | Orb | State | Polarity |\n")
		fmt.Fprintf(w, "|---|---|---|---|---|---|\n")
		for _, a := range report.Aspects {
			state := "separating"
			if a.Applying {
				state = "applying"
			}
			fmt.Fprintf(w, "| %s | %s | %s | %.2f° | %s | %s |\n", a.From, a.Kind, a.To, a.Orb, state, a.Polarity)
		}
	}

	r.writeRelationships(w, report)

	fmt.Fprintf(w, "\n## Sensitive points\n\n")
	fmt.Fprintf(w, "| Point | Position | Winners |\n")
	fmt.Fprintf(w, "|---|---|---|\n")
	for _, p := range report.Score.Points {
		fmt.Fprintf(w, "| %s | %s | %s |\n", p.Point, formatLon(p.Longitude), joinBodies(p.Winners))
	}

	fmt.Fprintf(w, "\n## Score\n\n")
	fmt.Fprintf(w, "| Planet | Shares | Essential | House | Phase | Day | Hour | Accidental | Total |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|---|---|---|---|\n")
	for _, rec := range report.Score.Records {
		fmt.Fprintf(w, "| %s | %d | %d | %d | %d | %d | %d | %d | **%d** |\n",
			rec.Body, rec.EssentialShares, rec.Essential, rec.House, rec.Phase,
			rec.DayRuler, rec.HourRuler, rec.Accidental, rec.Total)
	}

	fmt.Fprintf(w, "\n### Signals\n\n")
	for _, sig := range report.Score.Signals {
		fmt.Fprintf(w, "- **%s** %s (%+d): %s\n", sig.Type, sig.Body, sig.Points, sig.Description)
	}
}

func (r *Renderer) writeRelationships(w io.Writer, report *model.Report) {
	rel := report.Relationships
	fmt.Fprintf(w, "\n## Relationships\n\n")

	for _, m := range rel.MutualReceptions {
		fmt.Fprintf(w, "- Mutual reception %s / %s", m.A, m.B)
		if m.Aspect != "" {
			fmt.Fprintf(w, " by %s", m.Aspect)
		}
		fmt.Fprintln(w)
	}
	for _, t := range rel.Translations {
		note := ""
		if !t.NaturallyFastest {
			note = " (not naturally the fastest)"
		}
		fmt.Fprintf(w, "- %s translates light from %s to %s%s\n", t.Translator, t.From, t.To, note)
	}
	for _, c := range rel.Collections {
		note := ""
		if !c.CollectorNaturallySlower {
			note = " (not naturally the slowest)"
		}
		fmt.Fprintf(w, "- %s collects the light of %s and %s%s\n", c.Collector, c.A, c.B, note)
	}

	for _, b := range report.Bodies {
		f := b.Relationships
		var notes []string
		if f.Bonified {
			notes = append(notes, fmt.Sprintf("bonified by %s", influenceSources(f.Bonifications)))
		}
		if f.Maltreated {
			notes = append(notes, fmt.Sprintf("maltreated by %s", influenceSources(f.Maltreatments)))
		}
		for _, e := range f.Enclosures {
			notes = append(notes, fmt.Sprintf("%s enclosure by %s between %s and %s", e.Nature, e.Mode, e.Behind, e.Ahead))
		}
		if f.Feral {
			notes = append(notes, "feral")
		}
		for _, da := range f.DomicileAversions {
			if da.Averse {
				note := fmt.Sprintf("averse to %s", da.Sign)
				if da.AvoidedBy != "" {
					note += " (avoided by " + da.AvoidedBy + ")"
				}
				notes = append(notes, note)
			}
		}
		if len(notes) > 0 {
			fmt.Fprintf(w, "- **%s:** %s\n", b.Position.Body, strings.Join(notes, "; "))
		}
	}
}

func influenceSources(in []model.Influence) string {
	var bodies []model.Body
	seen := make(map[model.Body]bool)
	for _, i := range in {
		if !seen[i.Source] {
			seen[i.Source] = true
			bodies = append(bodies, i.Source)
		}
	}
	return joinBodies(bodies)
}

// WriteSummary prints a short console summary
func (r *Renderer) WriteSummary(w io.Writer, report *model.Report) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "  %s\n", report.Chart.Name)
	fmt.Fprintf(w, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  %s chart, Ascendant %s\n", report.ChartSect, formatLon(report.Houses.Ascendant))
	fmt.Fprintf(w, "  Day of %s, hour of %s\n", report.Planetary.DayRuler, report.Planetary.HourRuler)
	fmt.Fprintf(w, "\n")
	for _, rec := range report.Score.Records {
		marker := " "
		if rec.Body == report.Score.Almuten {
			marker = "★"
		}
		fmt.Fprintf(w, "  %s %-8s essential %3d  accidental %3d  total %3d\n", marker, rec.Body, rec.Essential, rec.Accidental, rec.Total)
	}
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "  Almuten Figuris: %s\n", report.Score.Almuten)
	fmt.Fprintf(w, "\n")
}
