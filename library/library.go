// Package library loads chord tables from YAML files.
//
// A table is an ordered list of rows; row order decides hotkey binding:
//
//	chords:
//	  - name: tonic cluster
//	    code: sym5 s31
//	  - code: "94 125 156"
package library

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-31tone/slots"
)

type tableFile struct {
	Chords []tableRow `yaml:"chords"`
}

type tableRow struct {
	Name string `yaml:"name,omitempty"`
	Code string `yaml:"code"`
}

// Load reads a chord table. Row validity is not checked here; bad rows are
// diagnosed and skipped by the slot store.
func Load(path string) ([]slots.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(file.Chords) == 0 {
		return nil, fmt.Errorf("%s: no chords", path)
	}

	rows := make([]slots.Row, len(file.Chords))
	for i, r := range file.Chords {
		rows[i] = slots.Row{Name: r.Name, Code: r.Code}
	}
	return rows, nil
}

// Save writes a chord table.
func Save(path string, rows []slots.Row) error {
	var file tableFile
	for _, r := range rows {
		file.Chords = append(file.Chords, tableRow{Name: r.Name, Code: r.Code})
	}
	data, err := yaml.Marshal(file)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Default is the built-in table used when no library is configured.
func Default() []slots.Row {
	return []slots.Row{
		{Name: "unison", Code: "94"},
		{Name: "cluster", Code: "sym5 s31"},
		{Name: "tight cluster", Code: "sym5 s2"},
		{Name: "fifth dyads", Code: "pairs4 int18 s31"},
		{Name: "wide pairs", Code: "4int8"},
		{Name: "scatter", Code: "rand5"},
		{Name: "jitter", Code: "rand5 s10"},
		{Name: "low drone", Code: "32 63 94"},
	}
}
