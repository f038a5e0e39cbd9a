package reference

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := files[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDownload(t *testing.T) {
	srv := newTestServer(t, map[string]string{
		"/Mus_musculus/TR/TRAV.fasta": ">X|TRAV1*01|Mus musculus|F|V-REGION|\nACGT\n",
		"/Mus_musculus/TR/TRBJ.fasta": ">X|TRBJ1-1*01|Mus musculus|F|J-REGION|\nACGT\n",
	})

	var progress bytes.Buffer
	d := NewDownloader()
	d.BaseURL = srv.URL
	d.Progress = &progress

	dir := t.TempDir()
	paths, err := d.Download(context.Background(), "Mus_musculus", dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "TRAV.fasta"),
		filepath.Join(dir, "TRBJ.fasta"),
	}, paths)
	assert.Contains(t, progress.String(), "Downloading TRAV.fasta")

	names, err := ExtractCanonicalNames(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"TRAV1*01", "TRBJ1-1*01"}, names)

	progress.Reset()
	_, err = d.Download(context.Background(), "Mus_musculus", dir)
	require.NoError(t, err)
	assert.Contains(t, progress.String(), "already exists")
}

func TestDownload_NothingAvailable(t *testing.T) {
	srv := newTestServer(t, nil)
	d := NewDownloader()
	d.BaseURL = srv.URL

	_, err := d.Download(context.Background(), "Nobody", t.TempDir())
	assert.ErrorIs(t, err, ErrNoReference)
}

func TestDownload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	d := NewDownloader()
	d.BaseURL = srv.URL
	dir := t.TempDir()
	_, err := d.Download(context.Background(), "Homo_sapiens", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
}
