package reference

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"go.uber.org/zap"
)

// DefaultBaseURL is the IMGT V-QUEST reference directory.
const DefaultBaseURL = "https://www.imgt.org/download/V-QUEST/IMGT_V-QUEST_reference_directory"

// Segments are the TR reference files published per species. Constant
// genes are not part of the V-QUEST directory.
var Segments = []string{
	"TRAV", "TRAJ",
	"TRBV", "TRBD", "TRBJ",
	"TRDV", "TRDD", "TRDJ",
	"TRGV", "TRGJ",
}

// ErrNoReference is returned when none of the segment files exist for a
// species.
var ErrNoReference = errors.New("no reference files found")

// DefaultDownloadDir returns where reference files for an IMGT species
// directory (e.g. "Homo_sapiens") are stored.
func DefaultDownloadDir(imgtSpecies string) string {
	return filepath.Join(xdg.CacheHome, "tcrconvert", "reference", imgtSpecies)
}

// Downloader fetches IMGT reference FASTA files.
type Downloader struct {
	BaseURL  string
	Client   *http.Client
	Progress io.Writer // progress lines; nil for none
	logger   *zap.Logger
}

// NewDownloader creates a downloader for the public IMGT site.
func NewDownloader() *Downloader {
	return &Downloader{
		BaseURL: DefaultBaseURL,
		Client:  &http.Client{Timeout: 10 * time.Minute},
		logger:  zap.NewNop(),
	}
}

// SetLogger sets the logger.
func (d *Downloader) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Download fetches every segment file for imgtSpecies into destDir and
// returns the paths written. Files already present are kept. Segments the
// server does not have are skipped.
func (d *Downloader) Download(ctx context.Context, imgtSpecies, destDir string) ([]string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("create reference directory: %w", err)
	}

	var paths []string
	for _, seg := range Segments {
		url := fmt.Sprintf("%s/%s/TR/%s.fasta", d.BaseURL, imgtSpecies, seg)
		dest := filepath.Join(destDir, seg+".fasta")

		err := d.downloadFile(ctx, url, dest)
		if errors.Is(err, errNotFound) {
			d.logger.Warn("reference file not available", zap.String("segment", seg), zap.String("url", url))
			continue
		}
		if err != nil {
			return paths, fmt.Errorf("download %s: %w", seg, err)
		}
		paths = append(paths, dest)
	}

	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", imgtSpecies, ErrNoReference)
	}
	return paths, nil
}

var errNotFound = errors.New("not found")

// downloadFile downloads url to destPath through a temp file.
func (d *Downloader) downloadFile(ctx context.Context, url, destPath string) error {
	if info, err := os.Stat(destPath); err == nil {
		d.printf("  %s already exists (%s), skipping\n", filepath.Base(destPath), FormatSize(info.Size()))
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP error: %s", resp.Status)
	}

	d.printf("  Downloading %s...\n", filepath.Base(destPath))

	tmpPath := destPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	pw := &progressWriter{out: d.Progress, total: resp.ContentLength, lastPrint: time.Now()}
	_, err = io.Copy(f, io.TeeReader(resp.Body, pw))
	f.Close()
	if err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("download failed: %w", err)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename file: %w", err)
	}

	d.printf("    Done: %s\n", FormatSize(pw.downloaded))
	return nil
}

func (d *Downloader) printf(format string, args ...any) {
	if d.Progress != nil {
		fmt.Fprintf(d.Progress, format, args...)
	}
}

// progressWriter tracks download progress.
type progressWriter struct {
	out        io.Writer
	total      int64
	downloaded int64
	lastPrint  time.Time
}

func (pw *progressWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.downloaded += int64(n)

	if pw.out != nil && time.Since(pw.lastPrint) > time.Second {
		if pw.total > 0 {
			pct := float64(pw.downloaded) / float64(pw.total) * 100
			fmt.Fprintf(pw.out, "\r    Progress: %s / %s (%.1f%%)  ",
				FormatSize(pw.downloaded), FormatSize(pw.total), pct)
		} else {
			fmt.Fprintf(pw.out, "\r    Progress: %s  ", FormatSize(pw.downloaded))
		}
		pw.lastPrint = time.Now()
	}

	return n, nil
}

// FormatSize formats bytes as human-readable size.
func FormatSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
