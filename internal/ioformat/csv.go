package ioformat

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
)

// Record is one CSV data line: date, run parameters, turn, elapsed
// time, the MCTS-only tree stats (zero for LocalSearch runs), and the
// resulting coloring.
type Record struct {
	Date     string
	Problem  string
	Instance string
	Method   string
	RandSeed int64

	Turn           int64
	ElapsedSeconds float64

	// MCTS extras; left zero for the LocalSearch method.
	Depth      int64
	TotalNodes int64
	LiveNodes  int64
	TreeHeight int64

	NColors    int32
	NConflicts int32
	Score      int32
	Coloring   []int32
}

// Writer emits the header line once and a data line per call to WriteRecord,
// to <path>.running, renamed to <path> by Close(true) on clean exit.
type Writer struct {
	path    string
	running string
	f       *os.File
	w       *csv.Writer
	isMCTS  bool
}

// NewWriter opens <path>.running for writing. isMCTS controls whether
// the header/rows include the MCTS tree-stat columns.
func NewWriter(path string, isMCTS bool) (*Writer, error) {
	running := path + ".running"
	f, err := os.Create(running)
	if err != nil {
		return nil, err
	}
	return &Writer{path: path, running: running, f: f, w: csv.NewWriter(f), isMCTS: isMCTS}, nil
}

func (w *Writer) header() []string {
	cols := []string{"date", "problem", "instance", "method", "rand_seed", "turn", "elapsed_seconds"}
	if w.isMCTS {
		cols = append(cols, "depth", "total_nodes", "live_nodes", "tree_height")
	}
	return append(cols, "nb_colors", "nb_conflicts", "score", "coloring")
}

// WriteHeader writes the header line. Must be called exactly once,
// before any WriteRecord call.
func (w *Writer) WriteHeader() error {
	if err := w.w.Write(w.header()); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

// WriteRecord appends one data line.
func (w *Writer) WriteRecord(r Record) error {
	row := []string{
		r.Date, r.Problem, r.Instance, r.Method,
		strconv.FormatInt(r.RandSeed, 10),
		strconv.FormatInt(r.Turn, 10),
		strconv.FormatFloat(r.ElapsedSeconds, 'f', 3, 64),
	}
	if w.isMCTS {
		row = append(row,
			strconv.FormatInt(r.Depth, 10),
			strconv.FormatInt(r.TotalNodes, 10),
			strconv.FormatInt(r.LiveNodes, 10),
			strconv.FormatInt(r.TreeHeight, 10),
		)
	}
	row = append(row,
		strconv.FormatInt(int64(r.NColors), 10),
		strconv.FormatInt(int64(r.NConflicts), 10),
		strconv.FormatInt(int64(r.Score), 10),
		coloringString(r.Coloring),
	)
	if err := w.w.Write(row); err != nil {
		return err
	}
	w.w.Flush()
	return w.w.Error()
}

func coloringString(c []int32) string {
	parts := make([]string, len(c))
	for i, v := range c {
		parts[i] = strconv.FormatInt(int64(v), 10)
	}
	return strings.Join(parts, ":")
}

// Close closes the underlying file. When clean is true (the run
// terminated without error, including a signal-interrupted stop) the
// .running file is renamed to its final path; otherwise it is left in
// place for inspection.
func (w *Writer) Close(clean bool) error {
	if err := w.f.Close(); err != nil {
		return err
	}
	if clean {
		return os.Rename(w.running, w.path)
	}
	return nil
}
