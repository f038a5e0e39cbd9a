package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type result struct {
	code   int
	stdout string
	stderr string
}

// runWithConfig runs the CLI with a given config file and fresh viper state.
func runWithConfig(t *testing.T, cfg string, args ...string) result {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
	color.NoColor = true

	var stdout, stderr bytes.Buffer
	code := run(append([]string{"--config", cfg, "--log-level", "error"}, args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func runCLI(t *testing.T, args ...string) result {
	t.Helper()
	return runWithConfig(t, filepath.Join(t.TempDir(), "config.yaml"), args...)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func TestVersion(t *testing.T) {
	r := runCLI(t, "--version")
	assert.Equal(t, ExitSuccess, r.code)
	assert.Contains(t, r.stdout, "tcrconvert version dev")
}

func TestConvert_RejectsFileExtensions(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", "v_gene\nTRAV1-2\n")

	r := runCLI(t, "convert", "-i", in, "-o", filepath.Join(dir, "out.csv"), "-f", "tenx", "-t", "imgt")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, `"infile" must be a .csv or .tsv file`)

	csvIn := writeFile(t, dir, "in.csv", "v_gene\nTRAV1-2\n")
	r = runCLI(t, "convert", "-i", csvIn, "-o", filepath.Join(dir, "out.xlsx"), "-f", "tenx", "-t", "imgt")
	assert.Equal(t, ExitUsage, r.code)
	assert.Contains(t, r.stderr, `"outfile" must be a .csv or .tsv file`)
	assert.NoFileExists(t, filepath.Join(dir, "out.xlsx"))
}

func TestConvert_Human(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "v_gene,j_gene,cdr3\n"+
		"TRAV1-2,TRAJ12,CAVMDSSYKLIF\n"+
		"TRBV6-1,NOTAGENE,CASSGLAGGYNEQFF\n")
	out := filepath.Join(dir, "out.csv")

	r := runCLI(t, "--data-dir", t.TempDir(), "convert", "-i", in, "-o", out, "-f", "tenx", "-t", "imgt")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "v_gene,j_gene,cdr3\n"+
		"TRAV1-2*01,TRAJ12*01,CAVMDSSYKLIF\n"+
		"TRBV6-1*01,,CASSGLAGGYNEQFF\n", readFile(t, out))
	assert.Contains(t, r.stderr, "Converted 2 rows from 10X to IMGT")
	assert.Contains(t, r.stderr, "1 gene names could not be converted")
}

func TestConvert_DuckDBEngineTSV(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.tsv", "v_gene\tj_gene\tcdr3\n"+
		"TRAV1-2\tTRAJ12\tCAVMDSSYKLIF\n"+
		"TRBV6-1\tTRBJ2-1\tCASSGLAGGYNEQFF\n")
	out := filepath.Join(dir, "out.tsv")

	r := runCLI(t, "--data-dir", t.TempDir(), "convert", "-i", in, "-o", out,
		"-f", "10x", "-t", "adaptive", "--engine", "duckdb", "--rename", "--quiet")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "v_resolved\tj_resolved\tcdr3\n"+
		"TCRAV01-02*01\tTCRAJ12-01*01\tCAVMDSSYKLIF\n"+
		"TCRBV06-01*01\tTCRBJ02-01*01\tCASSGLAGGYNEQFF\n", readFile(t, out))
	assert.Empty(t, r.stderr)
}

func TestConvert_CustomColumns(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "myV,myJ,myCDR3\n"+
		"TRAV1-2*01,TRAJ12*01,CAVMDSSYKLIF\n")
	out := filepath.Join(dir, "out.csv")

	r := runCLI(t, "--data-dir", t.TempDir(), "convert", "-i", in, "-o", out,
		"-f", "imgt", "-t", "tenx", "-c", "myV", "-c", "myJ", "-c", "myCDR3")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "myV,myJ,myCDR3\nTRAV1-2,TRAJ12,CAVMDSSYKLIF\n", readFile(t, out))
}

func TestConvert_RenameCustomColumns(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "myV,myJ,myCDR3\n"+
		"TRAV1-2,TRAJ12,CAVMDSSYKLIF\n")
	out := filepath.Join(dir, "out.csv")

	r := runCLI(t, "--data-dir", t.TempDir(), "convert", "-i", in, "-o", out,
		"-f", "tenx", "-t", "adaptive", "-c", "myV", "-c", "myJ", "--rename")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "v_resolved,j_resolved,myCDR3\nTCRAV01-02*01,TCRAJ12-01*01,CAVMDSSYKLIF\n", readFile(t, out))
}

func TestConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "v_gene\nTRAV1-2\n")
	out := filepath.Join(dir, "out.csv")

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"unknown convention", []string{"-f", "vdjdb", "-t", "imgt"}, ExitUsage, "must be one of"},
		{"same convention", []string{"-f", "tenx", "-t", "10x"}, ExitError, "must differ"},
		{"unknown species", []string{"-f", "tenx", "-t", "imgt", "-s", "axolotl"}, ExitError, "tcrconvert species"},
		{"missing column", []string{"-f", "tenx", "-t", "imgt", "-c", "v_call"}, ExitError, "v_call"},
		{"unknown engine", []string{"-f", "tenx", "-t", "imgt", "--engine", "spark"}, ExitUsage, "unknown engine"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--data-dir", t.TempDir(), "convert", "-i", in, "-o", out}, tt.args...)
			r := runCLI(t, args...)
			assert.Equal(t, tt.code, r.code)
			assert.Contains(t, r.stderr, tt.msg)
			assert.NoFileExists(t, out)
		})
	}
}

func TestBuildAndConvert(t *testing.T) {
	refDir := t.TempDir()
	writeFile(t, refDir, "trav.fasta", ">X|TRAV1*01|Y|\n>X|TRAV14/DV4*01|Y|\n")
	dataDir := t.TempDir()

	r := runCLI(t, "--data-dir", dataDir, "build", refDir, "--species", "test")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, filepath.Join(dataDir, "test"), strings.TrimSpace(r.stdout))
	assert.FileExists(t, filepath.Join(dataDir, "test", "lookup.csv"))

	dir := t.TempDir()
	in := writeFile(t, dir, "in.csv", "v_gene,cdr3\nTRAV1,CAV\nTRAV14DV4,CAS\n")
	out := filepath.Join(dir, "out.csv")
	r = runCLI(t, "--data-dir", dataDir, "convert", "-i", in, "-o", out, "-f", "tenx", "-t", "imgt", "-s", "test")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "v_gene,cdr3\nTRAV1*01,CAV\nTRAV14/DV4*01,CAS\n", readFile(t, out))

	r = runCLI(t, "--data-dir", dataDir, "species")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "human")
	assert.Contains(t, r.stdout, "mouse")
	assert.Contains(t, r.stdout, "rhesus")
	assert.Contains(t, r.stdout, "bundled")
	assert.Regexp(t, `test\s+built\s+2\s+`, r.stdout)

	r = runCLI(t, "--data-dir", dataDir, "species", "test")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "Species:  test")
	assert.Regexp(t, `lookup\.csv\s+2\n`, r.stdout)
	assert.Regexp(t, `lookup_from_adaptive\.csv\s+\d+\n`, r.stdout)
	assert.Regexp(t, `trav\.fasta\s+\d+ B\n`, r.stdout)

	r = runCLI(t, "--data-dir", dataDir, "species", "mouse")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "mouse (bundled)")
	assert.Regexp(t, `lookup_from_tenx\.csv\s+\d+\n`, r.stdout)

	r = runCLI(t, "--data-dir", dataDir, "species", "zebrafish")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, "tcrconvert species")
}

func TestBuild_InvalidSpecies(t *testing.T) {
	r := runCLI(t, "--data-dir", t.TempDir(), "build", t.TempDir(), "--species", "my:species")
	assert.Equal(t, ExitError, r.code)
	assert.Contains(t, r.stderr, `(try "my_species")`)
}

func TestBuild_RequiresSpecies(t *testing.T) {
	r := runCLI(t, "build", t.TempDir())
	assert.NotEqual(t, ExitSuccess, r.code)
	assert.Contains(t, r.stderr, "species")
}

func TestConfigSetGet(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	r := runWithConfig(t, cfg, "config", "set", "species", "mouse")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, readFile(t, cfg), "species: mouse")

	r = runWithConfig(t, cfg, "config", "get", "species")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, "mouse\n", r.stdout)

	r = runWithConfig(t, cfg, "config", "set", "colour", "red")
	assert.Equal(t, ExitUsage, r.code)
}

func TestConfigShow(t *testing.T) {
	r := runCLI(t, "config")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Contains(t, r.stdout, "engine: memory")
}

func TestDownloadAndBuild(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Mus_musculus/TR/TRAV.fasta" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(">X|TRAV1*01|Mus musculus|F|V-REGION|\n>X|TRAV2*01|Mus musculus|F|V-REGION|\n"))
	}))
	t.Cleanup(srv.Close)

	refDir := filepath.Join(t.TempDir(), "mouse")
	dataDir := t.TempDir()
	r := runCLI(t, "--data-dir", dataDir, "download", "Mus_musculus",
		"--base-url", srv.URL, "--output", refDir, "--species", "mouse")
	require.Equal(t, ExitSuccess, r.code, r.stderr)
	assert.Equal(t, filepath.Join(dataDir, "mouse"), strings.TrimSpace(r.stdout))
	assert.FileExists(t, filepath.Join(refDir, "TRAV.fasta"))
	assert.Contains(t, readFile(t, filepath.Join(dataDir, "mouse", "lookup_from_tenx.csv")), "TRAV2,TRAV2*01")
}
