package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/ppiankov/almuten/internal/model"
)

// mockAnalyzer implements Analyzer
type mockAnalyzer struct {
	failName string
	delay    time.Duration
}

func (m *mockAnalyzer) Analyze(ctx context.Context, in model.ChartInput) (*model.Report, error) {
	delay := m.delay
	if delay == 0 {
		delay = 5 * time.Millisecond
	}
	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	if in.Name == m.failName {
		return nil, errors.New("analysis error")
	}
	return &model.Report{
		Chart: in,
		Score: model.ScoreTable{Almuten: model.Mercury},
	}, nil
}

func writeChart(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yaml")
	content := fmt.Sprintf("name: %s\ntime: \"1996-09-06 17:32:36\"\ntz_offset_hours: 4\nlatitude: 55.75\nlongitude: 37.6167\n", name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessCharts(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 12; i++ {
		paths = append(paths, writeChart(t, dir, fmt.Sprintf("chart%02d", i)))
	}

	processor := NewBatchProcessor(&mockAnalyzer{}, 3, nil)
	results := processor.ProcessCharts(context.Background(), paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	for i, res := range results {
		if res.Path != paths[i] {
			t.Errorf("result %d: expected path %s, got %s", i, paths[i], res.Path)
		}
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
			continue
		}
		if res.Report.Score.Almuten != model.Mercury {
			t.Errorf("expected Mercury, got %s", res.Report.Score.Almuten)
		}
		if want := fmt.Sprintf("chart%02d", i); res.Report.Chart.Name != want {
			t.Errorf("expected chart %s, got %s", want, res.Report.Chart.Name)
		}
	}
}

func TestBatchProcessor_ProcessCharts_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeChart(t, dir, "good")
	bad := writeChart(t, dir, "bad")
	missing := filepath.Join(dir, "missing.yaml")

	processor := NewBatchProcessor(&mockAnalyzer{failName: "bad"}, 2, nil)
	results := processor.ProcessCharts(context.Background(), []string{good, bad, missing})

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Error != nil || results[0].Report == nil {
		t.Errorf("expected success for good chart, got %v", results[0].Error)
	}
	if results[1].Error == nil || results[1].Report != nil {
		t.Error("expected analysis error and nil report")
	}
	if results[2].Error == nil {
		t.Error("expected load error for missing chart")
	}
}

func TestBatchProcessor_ProcessCharts_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, nil)

	results := processor.ProcessCharts(context.Background(), []string{})
	if len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessCharts_Timeout(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for i := 0; i < 20; i++ {
		paths = append(paths, writeChart(t, dir, fmt.Sprintf("chart%02d", i)))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 12*time.Millisecond)
	defer cancel()

	processor := NewBatchProcessor(&mockAnalyzer{delay: 5 * time.Millisecond}, 1, nil)
	results := processor.ProcessCharts(ctx, paths)

	if len(results) != len(paths) {
		t.Fatalf("expected %d results, got %d", len(paths), len(results))
	}
	failed := 0
	for i, res := range results {
		if res.Index != i || res.Path != paths[i] {
			t.Errorf("result %d: expected %s, got %d %s", i, paths[i], res.Index, res.Path)
		}
		if res.Error == nil {
			continue
		}
		failed++
		if !errors.Is(res.Error, context.DeadlineExceeded) {
			t.Errorf("result %d: expected deadline exceeded, got %v", i, res.Error)
		}
	}
	if failed == 0 {
		t.Error("expected the timeout to leave charts unprocessed")
	}
}

func TestFillMissing(t *testing.T) {
	paths := []string{"a.yaml", "b.yaml", "c.yaml"}
	done := []*ChartResult{{Index: 1, Path: "b.yaml"}}

	got := fillMissing(context.Background(), paths, done)
	if len(got) != 3 {
		t.Fatalf("expected 3 results, got %d", len(got))
	}
	for _, r := range got {
		if r.Index == 1 {
			if r.Error != nil {
				t.Errorf("expected processed chart to keep its result, got %v", r.Error)
			}
			continue
		}
		if r.Path != paths[r.Index] || !errors.Is(r.Error, context.Canceled) {
			t.Errorf("unexpected filler result %+v", r)
		}
	}
}

func TestReadChartList(t *testing.T) {
	dir := t.TempDir()
	content := strings.Join([]string{
		"a.yaml",
		"# comment",
		"",
		"   sub/b.hor   ",
		"a.yaml",
		"/abs/c.yaml",
	}, "\n")
	list := filepath.Join(dir, "charts.txt")
	if err := os.WriteFile(list, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	paths, err := ReadChartList(list)
	if err != nil {
		t.Fatalf("ReadChartList failed: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.yaml"),
		filepath.Join(dir, "sub", "b.hor"),
		"/abs/c.yaml",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
}

func TestReadChartList_NonExistent(t *testing.T) {
	_, err := ReadChartList("non_existent_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	writeChart(t, dir, "one")
	writeChart(t, dir, "two")
	list := filepath.Join(dir, "charts.txt")
	if err := os.WriteFile(list, []byte("one.yaml\ntwo.yaml\n# three.yaml\n"), 0644); err != nil {
		t.Fatal(err)
	}

	processor := NewBatchProcessor(&mockAnalyzer{}, 2, nil)
	results, err := processor.ProcessFile(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, res := range results {
		if res.Error != nil {
			t.Errorf("unexpected error for %s: %v", res.Path, res.Error)
		}
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2, nil)

	_, err := processor.ProcessFile(context.Background(), "no_such_file.txt")
	if err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestChartResult_GetError(t *testing.T) {
	r1 := &ChartResult{Path: "a.yaml"}
	if r1.GetError() != nil {
		t.Errorf("expected nil error, got %v", r1.GetError())
	}

	expected := errors.New("load failed")
	r2 := &ChartResult{Path: "a.yaml", Error: expected}
	if r2.GetError() != expected {
		t.Errorf("expected %v, got %v", expected, r2.GetError())
	}
}
