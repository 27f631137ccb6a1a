// Package ephemeris is the astronomical oracle: tabulated planet positions,
// chart angles, fixed stars, and the solar day and lunation derived from them.
package ephemeris

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ppiankov/almuten/internal/model"
	"github.com/ppiankov/almuten/internal/zodiac"
	"gopkg.in/yaml.v3"
)

// Row is one tabulated sample of a body's position
type Row struct {
	Body      model.Body `yaml:"body" json:"body"`
	Time      time.Time  `yaml:"time" json:"time"`
	Longitude float64    `yaml:"longitude" json:"longitude"`
	Latitude  float64    `yaml:"latitude" json:"latitude"`
	Speed     float64    `yaml:"speed" json:"speed"` // Degrees per day
}

// Source supplies the tabulated samples on either side of an instant.
// When a sample falls exactly on t, before and after are both that sample.
// Instants outside the table fail with a model.ErrConfiguration error.
type Source interface {
	Bracket(ctx context.Context, body model.Body, t time.Time) (before, after Row, err error)
}

// Interpolate evaluates the position at t between two samples using cubic
// Hermite interpolation on longitude (the tabulated speeds are the
// tangents) and linear interpolation on latitude and speed. Samples must be
// close enough that the body moves less than 180° between them.
func Interpolate(before, after Row, t time.Time) model.Coordinates {
	span := after.Time.Sub(before.Time)
	if span <= 0 {
		return model.Coordinates{
			Longitude: zodiac.Normalize(before.Longitude),
			Latitude:  before.Latitude,
			Speed:     before.Speed,
		}
	}
	h := span.Hours() / 24
	s := float64(t.Sub(before.Time)) / float64(span)

	p0 := before.Longitude
	p1 := p0 + zodiac.Signed(before.Longitude, after.Longitude)
	s2, s3 := s*s, s*s*s
	h00 := 2*s3 - 3*s2 + 1
	h10 := s3 - 2*s2 + s
	h01 := -2*s3 + 3*s2
	h11 := s3 - s2
	lon := h00*p0 + h10*h*before.Speed + h01*p1 + h11*h*after.Speed

	return model.Coordinates{
		Longitude: zodiac.Normalize(lon),
		Latitude:  before.Latitude + s*(after.Latitude-before.Latitude),
		Speed:     before.Speed + s*(after.Speed-before.Speed),
	}
}

// TableSource is an in-memory Source built from rows, e.g. a YAML table
type TableSource struct {
	rows map[model.Body][]Row
}

// NewTableSource indexes rows by body and time
func NewTableSource(rows []Row) *TableSource {
	ts := &TableSource{rows: make(map[model.Body][]Row)}
	for _, r := range rows {
		r.Time = r.Time.UTC()
		ts.rows[r.Body] = append(ts.rows[r.Body], r)
	}
	for b := range ts.rows {
		sort.Slice(ts.rows[b], func(i, j int) bool {
			return ts.rows[b][i].Time.Before(ts.rows[b][j].Time)
		})
	}
	return ts
}

// tableFile is the on-disk layout of a YAML ephemeris table
type tableFile struct {
	Rows []Row `yaml:"rows"`
}

// LoadTable reads a YAML ephemeris table
func LoadTable(path string) (*TableSource, error) {
	rows, err := ReadRows(path)
	if err != nil {
		return nil, err
	}
	return NewTableSource(rows), nil
}

// ReadRows parses the rows of a YAML ephemeris table
func ReadRows(path string) ([]Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.ConfigErrorf("ephemeris.path", err, "cannot read ephemeris table %s", path)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, model.ConfigErrorf("ephemeris.path", err, "cannot parse ephemeris table %s", path)
	}
	for i, r := range f.Rows {
		b, ok := model.ParseBody(string(r.Body))
		if !ok {
			return nil, model.ConfigErrorf("ephemeris.path", nil, "row %d: unknown body %q", i, r.Body)
		}
		f.Rows[i].Body = b
	}
	return f.Rows, nil
}

// Bracket implements Source
func (ts *TableSource) Bracket(_ context.Context, body model.Body, t time.Time) (Row, Row, error) {
	rows := ts.rows[body]
	if len(rows) == 0 {
		return Row{}, Row{}, model.ConfigErrorf("ephemeris", nil, "no %s rows in table", body)
	}
	i := sort.Search(len(rows), func(i int) bool { return !rows[i].Time.Before(t) })
	if i < len(rows) && rows[i].Time.Equal(t) {
		return rows[i], rows[i], nil
	}
	if i == 0 || i == len(rows) {
		return Row{}, Row{}, coverageError(body, t, rows[0].Time, rows[len(rows)-1].Time)
	}
	return rows[i-1], rows[i], nil
}

func coverageError(body model.Body, t, first, last time.Time) error {
	return model.ConfigErrorf("ephemeris", nil, "%s data covers %s to %s, not %s",
		body, first.Format(time.RFC3339), last.Format(time.RFC3339), t.Format(time.RFC3339))
}

// CoverageError reports an instant outside a source's table
func CoverageError(body model.Body, t time.Time) error {
	return model.ConfigErrorf("ephemeris", nil, "no %s data covering %s", body, t.Format(time.RFC3339))
}

var _ Source = (*TableSource)(nil)

// String describes the table for logs
func (ts *TableSource) String() string {
	n := 0
	for _, r := range ts.rows {
		n += len(r)
	}
	return fmt.Sprintf("table(%d bodies, %d rows)", len(ts.rows), n)
}
