package storage

import (
	"encoding/json"
	"io"
	"os"

	"go.uber.org/multierr"

	"github.com/san-kum/drivetrain/internal/motion"
)

type ExportSample struct {
	Primitive string  `json:"primitive"`
	Tick      int     `json:"tick"`
	ElapsedMs float64 `json:"elapsed_ms"`
	Error     float64 `json:"error"`
	Left      float64 `json:"left"`
	Right     float64 `json:"right"`
	Heading   float64 `json:"heading"`
	Rotation  float64 `json:"rotation"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

type ExportData struct {
	RunMetadata
	Steps   int            `json:"steps"`
	Samples []ExportSample `json:"samples"`
}

func NewExportData(meta RunMetadata, samples []motion.Sample) ExportData {
	data := ExportData{
		RunMetadata: meta,
		Steps:       len(samples),
		Samples:     make([]ExportSample, len(samples)),
	}
	for i, s := range samples {
		data.Samples[i] = ExportSample{
			Primitive: s.Primitive,
			Tick:      s.Tick,
			ElapsedMs: ms(s.Elapsed),
			Error:     s.Error,
			Left:      s.Command.Left,
			Right:     s.Command.Right,
			Heading:   s.Heading,
			Rotation:  s.Rotation,
			X:         s.Position.X,
			Y:         s.Position.Y,
		}
	}
	return data
}

func WriteJSON(w io.Writer, data ExportData) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, data ExportData) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Close(file))
	return WriteJSON(file, data)
}

func ExportJSONStdout(data ExportData) error {
	return WriteJSON(os.Stdout, data)
}
