// Package store persists lookup tables per species.
//
// Tables live in one directory per species:
//
//	{root}/{species}/lookup.csv
//	{root}/{species}/lookup_from_tenx.csv
//	{root}/{species}/lookup_from_adaptive.csv
//	{root}/{species}/manifest.yaml
//
// Bundled species are compiled in as IMGT reference headers and built in
// memory when no user tables exist for them.
package store

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/adrg/xdg"
	"go.uber.org/zap"

	"github.com/inodb/tcrconvert/internal/lookup"
	"github.com/inodb/tcrconvert/internal/reference"
)

//go:embed bundled
var bundledFS embed.FS

const bundledRoot = "bundled"

// bundledSpecies holds one directory of reference headers per species.
var bundledSpecies = mustSub(bundledFS, bundledRoot)

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(fmt.Sprintf("bundled references: %v", err))
	}
	return sub
}

// AppName names the per-user data directory.
const AppName = "tcrconvert"

// DefaultRoot returns the per-user data directory for lookup tables.
func DefaultRoot() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// Store reads and writes species lookup tables under a root directory.
type Store struct {
	root    string
	bundled fs.FS
	logger  *zap.Logger
}

// New creates a store rooted at root. An empty root uses DefaultRoot.
func New(root string) *Store {
	if root == "" {
		root = DefaultRoot()
	}
	return &Store{root: root, bundled: bundledSpecies, logger: zap.NewNop()}
}

// SetLogger sets the logger for load and save messages.
func (s *Store) SetLogger(l *zap.Logger) {
	s.logger = l
}

// SetBundled replaces the bundled reference filesystem, one directory per species.
func (s *Store) SetBundled(fsys fs.FS) {
	s.bundled = fsys
}

// Root returns the store's root directory.
func (s *Store) Root() string {
	return s.root
}

// Dir returns the directory holding a species' tables.
func (s *Store) Dir(species string) string {
	return filepath.Join(s.root, species)
}

// Save replaces a species' tables with set and returns the species directory.
func (s *Store) Save(species string, set *lookup.TableSet, sources []FileFingerprint) (string, error) {
	if err := ValidateSpecies(species); err != nil {
		return "", err
	}

	dir := s.Dir(species)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create species directory: %w", err)
	}

	for _, k := range lookup.Kinds() {
		var buf bytes.Buffer
		if err := lookup.WriteCSV(&buf, set.Table(k)); err != nil {
			return "", fmt.Errorf("encode %s: %w", k.FileName(), err)
		}
		if err := writeFileAtomic(filepath.Join(dir, k.FileName()), buf.Bytes()); err != nil {
			return "", err
		}
	}

	manifest, err := NewManifest(species, set, sources).Marshal()
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(filepath.Join(dir, manifestName), manifest); err != nil {
		return "", err
	}

	s.logger.Info("saved lookup tables",
		zap.String("species", species),
		zap.String("dir", dir),
		zap.Int("genes", set.IMGT.Len()))
	return dir, nil
}

// Load returns one lookup table for a species. User-built tables take
// precedence over bundled ones. A species with neither yields a
// *lookup.TablesNotFoundError.
func (s *Store) Load(species string, kind lookup.Kind) (*lookup.Table, error) {
	if err := ValidateSpecies(species); err != nil {
		return nil, err
	}

	p := filepath.Join(s.Dir(species), kind.FileName())
	f, err := os.Open(p)
	switch {
	case err == nil:
		defer f.Close()
		s.logger.Debug("loading lookup table", zap.String("path", p))
		t, err := lookup.ReadCSV(f, kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		return t, nil
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("open lookup table: %w", err)
	}

	if s.isBundled(species) {
		set, err := s.buildBundled(species)
		if err != nil {
			return nil, err
		}
		return set.Table(kind), nil
	}

	return nil, &lookup.TablesNotFoundError{Species: species, Dir: s.Dir(species)}
}

// Manifest reads the manifest of a user-built species.
func (s *Store) Manifest(species string) (Manifest, error) {
	data, err := os.ReadFile(filepath.Join(s.Dir(species), manifestName))
	if err != nil {
		return Manifest{}, err
	}
	return ParseManifest(data)
}

// SpeciesInfo describes one available species.
type SpeciesInfo struct {
	Name    string
	Bundled bool
	Dir     string // empty for bundled species without user tables
}

// Species lists bundled species and species with tables under the root.
func (s *Store) Species() ([]SpeciesInfo, error) {
	found := make(map[string]*SpeciesInfo)

	if s.bundled != nil {
		entries, err := fs.ReadDir(s.bundled, ".")
		if err != nil {
			return nil, fmt.Errorf("read bundled species: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() {
				found[e.Name()] = &SpeciesInfo{Name: e.Name(), Bundled: true}
			}
		}
	}

	entries, err := os.ReadDir(s.root)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read data directory: %w", err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := s.Dir(e.Name())
		if _, err := os.Stat(filepath.Join(dir, lookup.KindIMGT.FileName())); err != nil {
			continue
		}
		info, ok := found[e.Name()]
		if !ok {
			info = &SpeciesInfo{Name: e.Name()}
			found[e.Name()] = info
		}
		info.Dir = dir
	}

	out := make([]SpeciesInfo, 0, len(found))
	for _, info := range found {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) isBundled(species string) bool {
	if s.bundled == nil {
		return false
	}
	info, err := fs.Stat(s.bundled, species)
	return err == nil && info.IsDir()
}

func (s *Store) buildBundled(species string) (*lookup.TableSet, error) {
	scanner := reference.NewScanner()
	scanner.SetLogger(s.logger)

	names, err := scanner.ExtractFS(s.bundled, path.Clean(species))
	if err != nil {
		return nil, fmt.Errorf("read bundled %s reference: %w", species, err)
	}
	s.logger.Debug("building bundled lookup tables", zap.String("species", species), zap.Int("genes", len(names)))

	set, err := lookup.Build(names)
	if err != nil {
		return nil, fmt.Errorf("build bundled %s tables: %w", species, err)
	}
	return set, nil
}

// writeFileAtomic writes data to a temp file and renames it into place.
func writeFileAtomic(p string, data []byte) error {
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("write %s: %w", filepath.Base(p), err)
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", filepath.Base(p), err)
	}
	return nil
}
