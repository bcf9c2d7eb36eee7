package telemetry

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phanxgames/drizzle"
)

func newEngine(t *testing.T) *drizzle.Engine {
	t.Helper()
	e, err := drizzle.New(drizzle.DefaultConfig(drizzle.EffectRain), drizzle.StaticDisplay{Width: 640, Height: 480, Density: 1})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(e.Dispose)
	return e
}

func readRows(t *testing.T, data []byte) [][]string {
	t.Helper()
	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return rows
}

func column(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i
		}
	}
	return -1
}

func TestRecorderWritesHeaderOnce(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	e := newEngine(t)

	for range 3 {
		if err := r.Write(e.Stats()); err != nil {
			t.Fatal(err)
		}
	}
	rows := readRows(t, buf.Bytes())
	if len(rows) != 4 {
		t.Fatalf("rows = %d, want header + 3", len(rows))
	}
	if column(rows[0], "engine") < 0 || column(rows[0], "particles") < 0 {
		t.Errorf("header = %v", rows[0])
	}
	if r.Rows() != 3 {
		t.Errorf("Rows = %d, want 3", r.Rows())
	}
}

func TestRecorderEverySamplesOnClock(t *testing.T) {
	var buf bytes.Buffer
	r := NewRecorder(&buf)
	e := newEngine(t)
	r.Every(e.Clock(), time.Second, e)

	e.Advance(10 * time.Second)
	if r.Rows() != 10 {
		t.Fatalf("Rows = %d, want 10", r.Rows())
	}

	rows := readRows(t, buf.Bytes())
	state := column(rows[0], "state")
	clock := column(rows[0], "clock_ms")
	if state < 0 || clock < 0 {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][state] != "pending" || rows[1][clock] != "1000" {
		t.Errorf("first row = %v", rows[1])
	}
	if rows[5][state] != "active" {
		t.Errorf("row at 5s state = %s, want active", rows[5][state])
	}

	r.Stop()
	e.Advance(5 * time.Second)
	if r.Rows() != 10 {
		t.Errorf("Rows = %d after Stop, want 10", r.Rows())
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRecorderStopsOnError(t *testing.T) {
	r := NewRecorder(failWriter{})
	e := newEngine(t)
	r.Every(e.Clock(), 100*time.Millisecond, e)
	e.Advance(time.Second)
	if r.Err() == nil {
		t.Fatal("expected a write error")
	}
	if r.Rows() != 0 {
		t.Errorf("Rows = %d, want 0", r.Rows())
	}
}

func TestCreateWritesFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	e := newEngine(t)
	r, err := Create(dir, e.Config())
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Write(e.Stats()); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"config.yaml", "stats.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, "stats.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if rows := readRows(t, data); len(rows) != 2 {
		t.Errorf("rows = %d, want 2", len(rows))
	}
}

func TestNilRecorder(t *testing.T) {
	r, err := Create("", drizzle.DefaultConfig(drizzle.EffectRain))
	if err != nil || r != nil {
		t.Fatalf("Create(\"\") = %v, %v, want nil, nil", r, err)
	}
	if err := r.Write(drizzle.Stats{}); err != nil {
		t.Error(err)
	}
	r.Every(drizzle.NewFrameClock(), time.Second, nil)
	if r.Rows() != 0 || r.Close() != nil || r.Dir() != "" {
		t.Error("nil recorder should be inert")
	}
}
