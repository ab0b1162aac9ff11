package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/drivetrain/internal/drivetrain"
	"github.com/san-kum/drivetrain/internal/geom"
	"github.com/san-kum/drivetrain/internal/motion"
)

const (
	metadataFile = "metadata.json"
	ticksFile    = "ticks.csv"
)

var ticksHeader = []string{"primitive", "tick", "elapsed_ms", "error", "left", "right", "heading", "rotation", "x", "y"}

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Routine    string             `json:"routine"`
	Preset     string             `json:"preset,omitempty"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	TickMs     float64            `json:"tick_ms"`
	Integrator string             `json:"integrator"`
	SimTimeMs  float64            `json:"sim_time_ms"`
	Error      string             `json:"error,omitempty"`
	Metrics    map[string]float64 `json:"metrics"`
	Results    []ResultRecord     `json:"results"`
}

// ResultRecord is the on-disk form of motion.Result.
type ResultRecord struct {
	Primitive   string  `json:"primitive"`
	Reason      string  `json:"reason"`
	ElapsedMs   float64 `json:"elapsed_ms"`
	Ticks       int     `json:"ticks"`
	FinalError  float64 `json:"final_error"`
	Converged   bool    `json:"converged"`
	SettledAtMs float64 `json:"settled_at_ms,omitempty"`
}

func NewResultRecord(r motion.Result) ResultRecord {
	rec := ResultRecord{
		Primitive:  r.Primitive,
		Reason:     r.Reason.String(),
		ElapsedMs:  ms(r.Elapsed),
		Ticks:      r.Ticks,
		FinalError: r.FinalError,
		Converged:  r.Converged,
	}
	if r.Converged {
		rec.SettledAtMs = ms(r.SettledAt)
	}
	return rec
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// Save writes a run directory holding metadata.json and ticks.csv and
// returns the run ID.
func (s *Store) Save(meta RunMetadata, samples []motion.Sample) (id string, err error) {
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now()
	}
	if meta.Metrics == nil {
		meta.Metrics = map[string]float64{}
	}

	runDir, id, err := s.makeRunDir(meta.Routine, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeSamples(filepath.Join(runDir, ticksFile), samples); err != nil {
		return "", err
	}
	return id, nil
}

// makeRunDir creates <routine>_<unix> and appends a counter when two runs
// land in the same second.
func (s *Store) makeRunDir(routine string, ts time.Time) (string, string, error) {
	if routine == "" {
		routine = "run"
	}
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", routine, ts.Unix())
	for i := 0; i < 1000; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, id, nil
		}
		if !os.IsExist(err) {
			return "", "", err
		}
	}
	return "", "", errors.Errorf("no free run directory for %s", base)
}

func writeJSON(path string, v interface{}) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeSamples(path string, samples []motion.Sample) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	w := csv.NewWriter(f)
	if err := w.Write(ticksHeader); err != nil {
		return err
	}
	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', 6, 64) }
	for _, s := range samples {
		row := []string{
			s.Primitive,
			strconv.Itoa(s.Tick),
			ff(ms(s.Elapsed)),
			ff(s.Error),
			ff(s.Command.Left),
			ff(s.Command.Right),
			ff(s.Heading),
			ff(s.Rotation),
			ff(s.Position.X),
			ff(s.Position.Y),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool { return runs[i].Timestamp.Before(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, errors.Wrapf(err, "run %s metadata", runID)
	}
	return &meta, nil
}

// LoadSamples reads a run's ticks back. Rows that fail to parse are
// reported, not skipped.
func (s *Store) LoadSamples(runID string) (samples []motion.Sample, err error) {
	f, err := os.Open(filepath.Join(s.baseDir, runID, ticksFile))
	if err != nil {
		return nil, err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(f))

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(ticksHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "run %s ticks", runID)
	}
	if len(records) < 2 {
		return []motion.Sample{}, nil
	}

	samples = make([]motion.Sample, 0, len(records)-1)
	for i, rec := range records[1:] {
		s, perr := parseSample(rec)
		if perr != nil {
			return nil, errors.Wrapf(perr, "run %s ticks row %d", runID, i+2)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

func parseSample(rec []string) (motion.Sample, error) {
	tick, err := strconv.Atoi(rec[1])
	if err != nil {
		return motion.Sample{}, err
	}
	vals := make([]float64, 0, len(rec)-2)
	for _, field := range rec[2:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return motion.Sample{}, err
		}
		vals = append(vals, v)
	}
	return motion.Sample{
		Primitive: rec[0],
		Tick:      tick,
		Elapsed:   time.Duration(vals[0] * float64(time.Millisecond)),
		Error:     vals[1],
		Command:   drivetrain.Wheels{Left: vals[2], Right: vals[3]},
		Heading:   vals[4],
		Rotation:  vals[5],
		Position:  geom.Pt(vals[6], vals[7]),
	}, nil
}
