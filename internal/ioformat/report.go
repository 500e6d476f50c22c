package ioformat

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Report is a debug/diagnostic snapshot of a run, yaml-marshaled the
// same way the teacher's GraphInfo is (a plain struct with yaml tags,
// no framework). It is not part of the CSV telemetry path, and nothing in
// a run writes it out (an invariant check failure does not either); only
// tests marshal and round-trip it.
type Report struct {
	Name     string  `yaml:"name"`
	N        int     `yaml:"n"`
	M        int     `yaml:"m"`
	Score    int32   `yaml:"score"`
	NColors  int32   `yaml:"nb_colors"`
	Coloring []int32 `yaml:"coloring"`
}

// Marshal serializes r to YAML.
func (r Report) Marshal() ([]byte, error) { return yaml.Marshal(r) }

// WriteFile writes r's YAML encoding to path.
func (r Report) WriteFile(path string) error {
	b, err := r.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// UnmarshalReport parses a Report back out of YAML, used by tests that
// round-trip a dumped report.
func UnmarshalReport(b []byte) (Report, error) {
	var r Report
	err := yaml.Unmarshal(b, &r)
	return r, err
}
