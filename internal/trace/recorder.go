// Package trace writes formation moves to a CSV file for offline analysis.
package trace

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"github.com/tomz197/invaders/internal/formation"
)

// Record is one row of the trace file.
type Record struct {
	Session   string  `csv:"session"`
	Tick      int     `csv:"tick"`
	Row       int     `csv:"row"`
	Kind      string  `csv:"kind"`
	Direction int     `csv:"direction"`
	Phase     string  `csv:"phase"`
	Live      int     `csv:"live"`
	DX        float64 `csv:"dx"`
	DY        float64 `csv:"dy"`
}

// FromMove converts a move event into a trace record.
func FromMove(session string, ev formation.MoveEvent) Record {
	return Record{
		Session:   session,
		Tick:      ev.Tick,
		Row:       ev.Row,
		Kind:      ev.Kind.String(),
		Direction: ev.Direction,
		Phase:     ev.Phase.String(),
		Live:      ev.Live,
		DX:        ev.DX,
		DY:        ev.DY,
	}
}

// Recorder appends records to a CSV stream. A nil *Recorder is valid and
// discards everything, so callers need not check whether tracing is on.
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	closer        io.Closer
	headerWritten bool
}

// Open creates the trace file at path. An empty path disables tracing and
// returns a nil recorder.
func Open(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}
	return &Recorder{w: f, closer: f}, nil
}

// NewRecorder writes to w. Close does not close w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// Write appends one record. The header goes out with the first record.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	records := []Record{rec}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	return nil
}

// Observer returns a formation observer that records every move of one
// session. Write errors are passed to onErr, which may be nil.
func (r *Recorder) Observer(session string, onErr func(error)) func(formation.MoveEvent) {
	if r == nil {
		return nil
	}
	return func(ev formation.MoveEvent) {
		if err := r.Write(FromMove(session, ev)); err != nil && onErr != nil {
			onErr(err)
		}
	}
}

// Close closes the underlying file, if the recorder owns one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closer.Close()
}
