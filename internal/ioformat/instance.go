// Package ioformat implements every external-facing data format: the
// DIMACS-like instance file pair, the CSV telemetry channel, and an
// optional YAML debug/report dump.
package ioformat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Cyril-Grelier/gc-wvcp-mcts/internal/graph"
)

// ErrMalformedInstance is returned when a .col or .col.w file does not
// follow the expected line shapes.
var ErrMalformedInstance = errors.New("ioformat: malformed instance file")

// LoadInstance reads instanceDir/name.col (and, when weighted is true,
// instanceDir/name.col.w) and builds a Graph. The .col file has exactly
// two meaningful line shapes: "p edge N M" (once, giving vertex/edge
// counts) and "e u v" (one per edge, 1-indexed); any other line is a
// comment and is skipped. The .col.w file is a whitespace-separated
// list of N integer weights, read in vertex order.
func LoadInstance(instanceDir, name string, weighted bool) (*graph.Graph, error) {
	colPath := instanceDir + "/" + name + ".col"
	f, err := os.Open(colPath)
	if err != nil {
		return nil, fmt.Errorf("ioformat: opening %s: %w", colPath, err)
	}
	defer f.Close()

	n, edges, err := parseCol(f)
	if err != nil {
		return nil, fmt.Errorf("ioformat: parsing %s: %w", colPath, err)
	}

	weights := make([]int32, n)
	for i := range weights {
		weights[i] = 1
	}
	if weighted {
		wPath := colPath + ".w"
		wf, err := os.Open(wPath)
		if err != nil {
			return nil, fmt.Errorf("ioformat: opening %s: %w", wPath, err)
		}
		defer wf.Close()
		if err := parseWeights(wf, weights); err != nil {
			return nil, fmt.Errorf("ioformat: parsing %s: %w", wPath, err)
		}
	}

	return graph.New(name, n, edges, weights)
}

func parseCol(r io.Reader) (int, [][2]int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var n int
	var edges [][2]int
	sawHeader := false

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if len(fields) != 4 {
				return 0, nil, fmt.Errorf("%w: bad p line %q", ErrMalformedInstance, line)
			}
			var err error
			n, err = strconv.Atoi(fields[2])
			if err != nil {
				return 0, nil, fmt.Errorf("%w: bad vertex count in %q", ErrMalformedInstance, line)
			}
			sawHeader = true
		case "e":
			if len(fields) != 3 {
				return 0, nil, fmt.Errorf("%w: bad e line %q", ErrMalformedInstance, line)
			}
			u, err1 := strconv.Atoi(fields[1])
			v, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil {
				return 0, nil, fmt.Errorf("%w: bad edge in %q", ErrMalformedInstance, line)
			}
			edges = append(edges, [2]int{u - 1, v - 1})
		default:
			// comment line ("c ..." or anything else): skip.
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, err
	}
	if !sawHeader {
		return 0, nil, fmt.Errorf("%w: missing p line", ErrMalformedInstance)
	}
	return n, edges, nil
}

func parseWeights(r io.Reader, weights []int32) error {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	for i := range weights {
		if !scanner.Scan() {
			return fmt.Errorf("%w: expected %d weights, found %d", ErrMalformedInstance, len(weights), i)
		}
		w, err := strconv.Atoi(scanner.Text())
		if err != nil {
			return fmt.Errorf("%w: bad weight %q", ErrMalformedInstance, scanner.Text())
		}
		weights[i] = int32(w)
	}
	return scanner.Err()
}
