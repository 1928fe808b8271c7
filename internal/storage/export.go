package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/san-kum/flowgrid/internal/sim"
)

type ExportData struct {
	Run   RunMetadata     `json:"run"`
	Steps int             `json:"steps"`
	Ticks []sim.TickStats `json:"ticks"`
}

// WriteTicksCSV writes ticks with a header row. An empty slice writes nothing.
func WriteTicksCSV(w io.Writer, ticks []sim.TickStats) error {
	if len(ticks) == 0 {
		return nil
	}
	if err := gocsv.Marshal(ticks, w); err != nil {
		return fmt.Errorf("writing ticks: %w", err)
	}
	return nil
}

func ExportJSON(w io.Writer, meta RunMetadata, ticks []sim.TickStats) error {
	data := ExportData{
		Run:   meta,
		Steps: len(ticks),
		Ticks: ticks,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSONFile(path string, meta RunMetadata, ticks []sim.TickStats) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return ExportJSON(file, meta, ticks)
}

// TickLog streams ticks to a CSV file as they happen. It is a sim.Observer.
type TickLog struct {
	file          *os.File
	headerWritten bool
	err           error
}

func NewTickLog(path string) (*TickLog, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	return &TickLog{file: f}, nil
}

func (l *TickLog) OnTick(_ *sim.Scene, s sim.TickStats) {
	if l.err != nil {
		return
	}
	records := []sim.TickStats{s}
	if !l.headerWritten {
		l.err = gocsv.Marshal(records, l.file)
		l.headerWritten = true
	} else {
		l.err = gocsv.MarshalWithoutHeaders(records, l.file)
	}
}

// Close flushes the file and reports the first write error, if any.
func (l *TickLog) Close() error {
	if err := l.file.Close(); err != nil && l.err == nil {
		l.err = err
	}
	return l.err
}
