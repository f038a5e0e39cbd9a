// Package builder turns a directory of IMGT reference FASTAs into a
// species' persisted lookup tables.
package builder

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/inodb/tcrconvert/internal/lookup"
	"github.com/inodb/tcrconvert/internal/reference"
	"github.com/inodb/tcrconvert/internal/store"
)

// Builder builds and saves lookup tables.
type Builder struct {
	store  *store.Store
	logger *zap.Logger
}

// New creates a builder that saves into s.
func New(s *store.Store) *Builder {
	return &Builder{store: s, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and warning messages.
func (b *Builder) SetLogger(l *zap.Logger) {
	b.logger = l
}

// Build reads every reference file in dir, builds the lookup tables and
// replaces the species' tables with them. It returns the species directory.
func (b *Builder) Build(dir, species string) (string, error) {
	if err := store.ValidateSpecies(species); err != nil {
		return "", err
	}

	scanner := reference.NewScanner()
	scanner.SetLogger(b.logger)
	names, err := scanner.ExtractDir(dir)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		b.logger.Warn("no reference genes found; writing empty lookup tables",
			zap.String("dir", dir),
			zap.Strings("extensions", reference.Extensions))
	}

	sources, err := fingerprints(dir)
	if err != nil {
		return "", err
	}

	set, err := lookup.Build(names)
	if err != nil {
		return "", err
	}
	b.logger.Info("built lookup tables",
		zap.String("species", species),
		zap.Int("genes", set.IMGT.Len()),
		zap.Int("tenx", set.TenX.Len()),
		zap.Int("adaptive", set.Adaptive.Len()))

	return b.store.Save(species, set, sources)
}

func fingerprints(dir string) ([]store.FileFingerprint, error) {
	files, err := reference.ListFiles(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}

	out := make([]store.FileFingerprint, 0, len(files))
	for _, f := range files {
		fp, err := store.StatFile(filepath.Join(dir, f))
		if err != nil {
			return nil, fmt.Errorf("stat reference file: %w", err)
		}
		out = append(out, fp)
	}
	return out, nil
}
