// Package integration provides end-to-end tests for cocite commands.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	cociteBinary     string
	cociteBinaryOnce sync.Once
	cociteBinaryErr  error
)

// getCociteBinary builds the cocite binary once and returns its path.
func getCociteBinary(t *testing.T) string {
	t.Helper()
	cociteBinaryOnce.Do(func() {
		// Get module root directory
		_, filename, _, ok := runtime.Caller(0)
		if !ok {
			cociteBinaryErr = os.ErrInvalid
			return
		}
		moduleRoot := filepath.Dir(filepath.Dir(filepath.Dir(filename)))

		tmpDir, err := os.MkdirTemp("", "cocite-test-*")
		if err != nil {
			cociteBinaryErr = err
			return
		}
		cociteBinary = filepath.Join(tmpDir, "cocite")

		cmd := exec.Command("go", "build", "-o", cociteBinary, "./cmd/cocite")
		cmd.Dir = moduleRoot
		if output, err := cmd.CombinedOutput(); err != nil {
			cociteBinaryErr = &buildError{output: string(output), err: err}
			return
		}
	})
	if cociteBinaryErr != nil {
		t.Fatalf("failed to build cocite: %v", cociteBinaryErr)
	}
	return cociteBinary
}

type buildError struct {
	output string
	err    error
}

func (e *buildError) Error() string {
	return e.err.Error() + ": " + e.output
}

// runCocite executes the cocite command in dir and returns combined output.
func runCocite(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	binary := getCociteBinary(t)
	cmd := exec.Command(binary, args...)
	cmd.Dir = dir
	// Keep config and cache inside the test directory.
	cmd.Env = append(os.Environ(),
		"XDG_CONFIG_HOME="+filepath.Join(dir, "config"),
		"XDG_CACHE_HOME="+filepath.Join(dir, "cache"),
	)
	output, err := cmd.CombinedOutput()
	return string(output), err
}

// writeFixtureDocument writes a citation document with two seed papers
// sharing one reference and one citing paper.
func writeFixtureDocument(t *testing.T, dir string) string {
	t.Helper()
	doc := `{
  "query_info": {"num_dois": 2, "max_citing_per_paper": 500, "sources": ["openalex", "semantic_scholar"]},
  "papers": [
    {
      "input_doi": "10.1/a",
      "metadata": {"doi": "10.1/a", "title": "Seed Paper A", "authors": ["A. Author"], "year": 2021, "venue": "ICML"},
      "references": [
        {"doi": "10.1/shared", "title": "Shared Reference", "authors": [], "year": 2019, "venue": ""},
        {"doi": "10.1/solo", "title": "Solo Reference", "authors": [], "year": 2018, "venue": ""}
      ],
      "cited_by": [
        {"doi": "10.1/citing", "title": "Shared Citing Work", "authors": [], "year": 2023, "venue": ""}
      ]
    },
    {
      "input_doi": "10.1/b",
      "metadata": {"doi": "10.1/b", "title": "Seed Paper B", "authors": ["B. Author"], "year": 2022, "venue": "NeurIPS"},
      "references": [
        {"doi": "10.1/shared", "title": "Shared Reference", "authors": [], "year": 2019, "venue": ""}
      ],
      "cited_by": [
        {"doi": "10.1/citing", "title": "Shared Citing Work", "authors": [], "year": 2023, "venue": ""}
      ]
    }
  ]
}`
	path := filepath.Join(dir, "citations.json")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDocument(t, dir)

	output, err := runCocite(t, dir, "analyze", "--input", "citations.json")
	if err != nil {
		t.Fatalf("analyze failed: %v\nOutput: %s", err, output)
	}

	var resp struct {
		OutputCited  string `json:"output_cited"`
		OutputCiting string `json:"output_citing"`
		NumCited     int    `json:"num_cited"`
		NumCiting    int    `json:"num_citing"`
	}
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("analyze output is not JSON: %v\nOutput: %s", err, output)
	}
	if resp.NumCited != 1 || resp.NumCiting != 1 {
		t.Errorf("counts = (%d, %d), want (1, 1)", resp.NumCited, resp.NumCiting)
	}

	// The ranked result files carry the shared papers.
	citedData, err := os.ReadFile(filepath.Join(dir, "frequently_cited.json"))
	if err != nil {
		t.Fatal(err)
	}
	var cited struct {
		Count  int `json:"count"`
		Papers []struct {
			Title string `json:"title"`
			CIn   int    `json:"c_in"`
		} `json:"papers"`
	}
	if err := json.Unmarshal(citedData, &cited); err != nil {
		t.Fatal(err)
	}
	if cited.Count != 1 || cited.Papers[0].Title != "Shared Reference" || cited.Papers[0].CIn != 2 {
		t.Errorf("cited result = %+v", cited)
	}

	citingData, err := os.ReadFile(filepath.Join(dir, "frequently_citing.json"))
	if err != nil {
		t.Fatal(err)
	}
	var citing struct {
		Count  int `json:"count"`
		Papers []struct {
			Title string `json:"title"`
			COut  int    `json:"c_out"`
		} `json:"papers"`
	}
	if err := json.Unmarshal(citingData, &citing); err != nil {
		t.Fatal(err)
	}
	if citing.Count != 1 || citing.Papers[0].Title != "Shared Citing Work" || citing.Papers[0].COut != 2 {
		t.Errorf("citing result = %+v", citing)
	}
}

func TestAnalyzeCommandHuman(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDocument(t, dir)

	output, err := runCocite(t, dir, "analyze", "--input", "citations.json", "--human")
	if err != nil {
		t.Fatalf("analyze failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(output, "Shared Reference") {
		t.Errorf("summary missing ranked paper:\n%s", output)
	}
}

func TestAnalyzeCommandMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte(`{"query_info": {}}`), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runCocite(t, dir, "analyze", "--input", "bad.json")
	if err == nil {
		t.Fatalf("expected failure for document without papers array, got:\n%s", output)
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 3 {
		t.Errorf("exit = %v, want data-error code 3", err)
	}

	// A JSON syntax error is equally a data error.
	syntaxPath := filepath.Join(dir, "syntax.json")
	if err := os.WriteFile(syntaxPath, []byte(`{"papers": [`), 0644); err != nil {
		t.Fatal(err)
	}
	output, err = runCocite(t, dir, "analyze", "--input", "syntax.json")
	if err == nil {
		t.Fatalf("expected failure for unparsable document, got:\n%s", output)
	}
	exitErr, ok = err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 3 {
		t.Errorf("exit = %v, want data-error code 3", err)
	}
}

func TestAnalyzeCommandToleratesBadRecordFields(t *testing.T) {
	dir := t.TempDir()
	doc := `{"papers": [
		{"input_doi": "10.1/a", "metadata": {"title": "Seed A"},
		 "references": [{"title": "Shared Ref", "year": "2020"}], "cited_by": []},
		{"input_doi": "10.1/b", "metadata": {"title": "Seed B"},
		 "references": [{"title": "Shared Ref", "year": 2020}], "cited_by": []}
	]}`
	if err := os.WriteFile(filepath.Join(dir, "citations.json"), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	output, err := runCocite(t, dir, "analyze", "--input", "citations.json", "--kcited", "2")
	if err != nil {
		t.Fatalf("one wrong-typed record field must not fail the run: %v\nOutput: %s", err, output)
	}

	var resp struct {
		NumCited int `json:"num_cited"`
	}
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("analyze output is not JSON: %v\nOutput: %s", err, output)
	}
	if resp.NumCited != 1 {
		t.Errorf("num_cited = %d, want 1 (record with dropped field still counts)", resp.NumCited)
	}
}

func TestCacheCommandConfigError(t *testing.T) {
	dir := t.TempDir()
	binary := getCociteBinary(t)

	// With no HOME and no XDG dirs there is nowhere to put the cache.
	cmd := exec.Command(binary, "cache", "info")
	cmd.Dir = dir
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected failure without a resolvable cache directory, got:\n%s", output)
	}
	exitErr, ok := err.(*exec.ExitError)
	if !ok || exitErr.ExitCode() != 2 {
		t.Errorf("exit = %v, want config-error code 2", err)
	}
	if !strings.Contains(string(output), "error") {
		t.Errorf("output missing error payload:\n%s", output)
	}
}

func TestGraphCommand(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDocument(t, dir)

	output, err := runCocite(t, dir, "graph", "--input", "citations.json", "--output", "graph.html")
	if err != nil {
		t.Fatalf("graph failed: %v\nOutput: %s", err, output)
	}

	var resp struct {
		NumSeed   int `json:"num_seed"`
		NumCited  int `json:"num_cited"`
		NumCiting int `json:"num_citing"`
		NumEdges  int `json:"num_edges"`
	}
	if err := json.Unmarshal([]byte(output), &resp); err != nil {
		t.Fatalf("graph output is not JSON: %v\nOutput: %s", err, output)
	}
	if resp.NumSeed != 2 || resp.NumCited != 1 || resp.NumCiting != 1 {
		t.Errorf("partition sizes = %+v", resp)
	}
	// Two seed->reference edges plus two citing->seed edges.
	if resp.NumEdges != 4 {
		t.Errorf("edges = %d, want 4", resp.NumEdges)
	}

	html, err := os.ReadFile(filepath.Join(dir, "graph.html"))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"cytoscape", "title:seed paper a", "title:shared reference"} {
		if !strings.Contains(string(html), want) {
			t.Errorf("graph HTML missing %q", want)
		}
	}
}

func TestGraphCommandInvalidLayout(t *testing.T) {
	dir := t.TempDir()
	writeFixtureDocument(t, dir)

	output, err := runCocite(t, dir, "graph", "--input", "citations.json", "--layout", "spiral")
	if err == nil {
		t.Fatalf("expected failure for invalid layout, got:\n%s", output)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()

	output, err := runCocite(t, dir, "cache", "info")
	if err != nil {
		t.Fatalf("cache info failed: %v\nOutput: %s", err, output)
	}
	var info struct {
		Path string `json:"path"`
	}
	if err := json.Unmarshal([]byte(output), &info); err != nil {
		t.Fatalf("cache info output is not JSON: %v\nOutput: %s", err, output)
	}
	if info.Path == "" {
		t.Error("cache info reported no path")
	}

	output, err = runCocite(t, dir, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear failed: %v\nOutput: %s", err, output)
	}
	var cleared struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal([]byte(output), &cleared); err != nil {
		t.Fatalf("cache clear output is not JSON: %v\nOutput: %s", err, output)
	}
	if cleared.Removed != 0 {
		t.Errorf("removed = %d, want 0 for fresh cache", cleared.Removed)
	}
}

func TestFetchCommandRequiresInput(t *testing.T) {
	dir := t.TempDir()

	output, err := runCocite(t, dir, "fetch")
	if err == nil {
		t.Fatalf("expected failure without --input, got:\n%s", output)
	}
	if !strings.Contains(output, "--input") {
		t.Errorf("error should mention the missing flag:\n%s", output)
	}
}
