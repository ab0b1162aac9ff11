package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/motion"
)

func testSamples() []motion.Sample {
	return []motion.Sample{
		{Primitive: "drive", Tick: 0, Elapsed: 0, Error: 1000, Command: drivetrain.Straight(127), Position: geom.Pt(0, 0)},
		{Primitive: "drive", Tick: 1, Elapsed: 10 * time.Millisecond, Error: 973.33, Command: drivetrain.Straight(127), Rotation: 26.67, Position: geom.Pt(0, 26.67)},
		{Primitive: "spin_to", Tick: 0, Elapsed: 0, Error: -45.5, Command: drivetrain.Spin(-80), Heading: 12.25, Position: geom.Pt(0, 26.67)},
	}
}

func testMeta() RunMetadata {
	return RunMetadata{
		Routine:    "skills",
		Seed:       42,
		TickMs:     10,
		Integrator: "rk4",
		Metrics:    map[string]float64{"iae": 1.5},
		Results: []ResultRecord{
			NewResultRecord(motion.Result{Primitive: "drive", Reason: motion.Timeout, Elapsed: 2 * time.Second, Ticks: 200, Converged: true, SettledAt: 900 * time.Millisecond}),
		},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runID, err := st.Save(testMeta(), testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Routine != "skills" || meta.Seed != 42 || meta.ID != runID {
		t.Errorf("unexpected metadata %+v", meta)
	}
	if meta.Metrics["iae"] != 1.5 {
		t.Errorf("expected iae 1.5, got %f", meta.Metrics["iae"])
	}
	if len(meta.Results) != 1 || meta.Results[0].Reason != "timeout" || meta.Results[0].SettledAtMs != 900 {
		t.Errorf("unexpected results %+v", meta.Results)
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		t.Fatalf("load samples failed: %v", err)
	}
	want := testSamples()
	if len(samples) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(samples))
	}
	if samples[1].Elapsed != 10*time.Millisecond || samples[1].Position.Y != 26.67 {
		t.Errorf("sample 1 = %+v", samples[1])
	}
	if samples[2].Primitive != "spin_to" || samples[2].Command.Left != -80 || samples[2].Command.Right != 80 {
		t.Errorf("sample 2 = %+v", samples[2])
	}
}

func TestStoreList(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	// same second, distinct directories
	meta := testMeta()
	meta.Timestamp = time.Unix(1700000000, 0)
	first, err := st.Save(meta, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	second, err := st.Save(meta, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if first == second {
		t.Errorf("run ids collide: %s", first)
	}

	if err := os.Mkdir(filepath.Join(tmpDir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}
	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(testMeta(), testSamples())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runDir := filepath.Join(tmpDir, runID)
	for _, name := range []string{metadataFile, ticksFile} {
		if _, err := os.Stat(filepath.Join(runDir, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
}

func TestLoadSamplesRejectsCorruptRows(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)
	runID, err := st.Save(testMeta(), testSamples())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(tmpDir, runID, ticksFile)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = f.WriteString("drive,2,20,oops,0,0,0,0,0,0\n")
	_ = f.Close()

	if _, err := st.LoadSamples(runID); err == nil {
		t.Error("expected error for corrupt row")
	}
}

func TestExport(t *testing.T) {
	data := NewExportData(testMeta(), testSamples())
	if data.Steps != 3 {
		t.Errorf("steps = %d", data.Steps)
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, data); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if decoded["routine"] != "skills" {
		t.Errorf("routine = %v", decoded["routine"])
	}
	if samples, ok := decoded["samples"].([]interface{}); !ok || len(samples) != 3 {
		t.Errorf("samples = %v", decoded["samples"])
	}

	path := filepath.Join(t.TempDir(), "run.json")
	if err := ExportJSON(path, data); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error(err)
	}
}
