// Package reference reads IMGT reference FASTA files.
package reference

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/klauspost/pgzip"
	"go.uber.org/zap"
)

// Extensions accepted as reference files. Gzipped variants are also accepted.
var Extensions = []string{".fa", ".fasta"}

// Scanner extracts gene names from reference FASTA headers.
type Scanner struct {
	logger *zap.Logger
}

// NewScanner creates a scanner that discards log output.
func NewScanner() *Scanner {
	return &Scanner{logger: zap.NewNop()}
}

// SetLogger sets the logger for skipped headers and scanned files.
func (s *Scanner) SetLogger(l *zap.Logger) {
	s.logger = l
}

// ExtractCanonicalNames reads every reference file in dir and returns the
// IMGT gene names from their headers, sorted lexicographically.
// A directory without reference files yields an empty list.
func ExtractCanonicalNames(dir string) ([]string, error) {
	return NewScanner().ExtractDir(dir)
}

// ExtractDir is ExtractCanonicalNames on the local filesystem.
func (s *Scanner) ExtractDir(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open reference directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference path %s is not a directory", dir)
	}
	return s.ExtractFS(os.DirFS(dir), ".")
}

// ExtractFS reads every reference file directly inside dir of fsys.
func (s *Scanner) ExtractFS(fsys fs.FS, dir string) ([]string, error) {
	files, err := ListFiles(fsys, dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, f := range files {
		got, err := s.readFile(fsys, f)
		if err != nil {
			return nil, err
		}
		s.logger.Debug("scanned reference file", zap.String("file", f), zap.Int("genes", len(got)))
		names = append(names, got...)
	}

	sort.Strings(names)
	return names, nil
}

// ListFiles returns the reference files directly inside dir, sorted by name.
func ListFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read reference directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !IsReferenceFile(e.Name()) {
			continue
		}
		files = append(files, path.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// IsReferenceFile reports whether a file name has a reference FASTA extension.
func IsReferenceFile(name string) bool {
	lower := strings.ToLower(strings.TrimSuffix(name, ".gz"))
	for _, ext := range Extensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

func (s *Scanner) readFile(fsys fs.FS, name string) ([]string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open reference file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(strings.ToLower(name), ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader for %s: %w", name, err)
		}
		defer gz.Close()
		reader = gz
	}

	names, err := s.parseHeaders(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return names, nil
}

// parseHeaders returns the gene name of every header line.
// IMGT headers look like:
// >X02844|TRAV1-1*01|Homo sapiens|F|V-REGION|...
func (s *Scanner) parseHeaders(reader io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(reader)
	// Sequence lines in unwrapped FASTA can be long
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	var names []string
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if !strings.HasPrefix(line, ">") {
			continue
		}

		name, ok := ParseHeader(line)
		if !ok {
			s.logger.Debug("skipping header without gene field", zap.Int("line", lineNumber))
			continue
		}
		names = append(names, name)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	return names, nil
}

// ParseHeader returns the second "|"-delimited field of a header line.
func ParseHeader(header string) (string, bool) {
	fields := strings.Split(strings.TrimRight(header, "\r\n"), "|")
	if len(fields) < 2 {
		return "", false
	}
	name := strings.TrimSpace(fields[1])
	if name == "" {
		return "", false
	}
	return name, true
}
