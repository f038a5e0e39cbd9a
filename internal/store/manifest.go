package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/inodb/tcrconvert/internal/lookup"
)

const manifestName = "manifest.yaml"

// FileFingerprint holds stat-based identity for a reference file.
type FileFingerprint struct {
	Name string `yaml:"name"`
	Size int64  `yaml:"size"`
}

// StatFile fingerprints an on-disk reference file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{Name: filepath.Base(path), Size: info.Size()}, nil
}

// TableRows is the row count of one lookup table file.
type TableRows struct {
	File string `yaml:"file"`
	Rows int    `yaml:"rows"`
}

// Manifest describes how a species' tables were built. It carries no
// timestamps, so identical inputs produce identical bytes.
type Manifest struct {
	Species string            `yaml:"species"`
	Sources []FileFingerprint `yaml:"sources"`
	Tables  []TableRows       `yaml:"tables"`
}

// NewManifest records row counts of set and its reference sources.
func NewManifest(species string, set *lookup.TableSet, sources []FileFingerprint) Manifest {
	sorted := append([]FileFingerprint(nil), sources...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	m := Manifest{Species: species, Sources: sorted}
	for _, k := range lookup.Kinds() {
		m.Tables = append(m.Tables, TableRows{File: k.FileName(), Rows: set.Table(k).Len()})
	}
	return m
}

// Rows returns the recorded row count for a table kind, or -1 when the
// manifest has no entry for it.
func (m Manifest) Rows(k lookup.Kind) int {
	for _, t := range m.Tables {
		if t.File == k.FileName() {
			return t.Rows
		}
	}
	return -1
}

// Marshal encodes the manifest as YAML.
func (m Manifest) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	return data, nil
}

// ParseManifest decodes a manifest written by Marshal.
func ParseManifest(data []byte) (Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}
