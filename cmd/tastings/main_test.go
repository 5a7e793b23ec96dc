package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tastingclub/tastings/internal/tasting"
)

func setupCLI(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASTINGS_DIR", dir)
	t.Setenv("TASTINGS_CONFIG", filepath.Join(dir, "missing.toml"))
	for _, name := range []string{"TASTINGS_STORE", "TASTINGS_CSV_PATH", "TASTINGS_SQLITE_PATH", "TASTINGS_LOG_LEVEL"} {
		t.Setenv(name, "")
	}
	return dir
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListShowDelete(t *testing.T) {
	dir := setupCLI(t)

	out, err := run(t, "", "add", "--coffee", "Sidamo", "--origin", "ethiopia", "--rating", "8", "--date", "2024-02-02")
	if err != nil {
		t.Fatalf("add returned error: %v (%s)", err, out)
	}
	if !strings.Contains(out, "position 0") {
		t.Fatalf("expected new position in output, got %q", out)
	}

	if _, err := os.Stat(filepath.Join(dir, "coffee_tasting_data.csv")); err != nil {
		t.Fatalf("expected csv store to be created: %v", err)
	}

	out, err = run(t, "", "list", "--format", "json")
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	var listed listOutput
	if err := json.Unmarshal([]byte(out), &listed); err != nil {
		t.Fatalf("list output is not JSON: %v (%s)", err, out)
	}
	if len(listed.Tastings) != 1 {
		t.Fatalf("expected 1 tasting, got %d", len(listed.Tastings))
	}
	got := listed.Tastings[0]
	if got.Acidity != 5 || got.Sweetness != 5 || got.Body != 5 || got.OverallRating != 8 {
		t.Fatalf("unexpected scores: %#v", got.Record)
	}
	if len(got.BeanOrigins) != 1 || got.BeanOrigins[0] != "Ethiopia" {
		t.Fatalf("unexpected origins: %v", got.BeanOrigins)
	}

	out, err = run(t, "", "show", "0")
	if err != nil {
		t.Fatalf("show returned error: %v", err)
	}
	if !strings.Contains(out, "Sidamo") || !strings.Contains(out, "Overall Rating") {
		t.Fatalf("unexpected show output: %s", out)
	}

	out, err = run(t, "n\n", "delete", "0")
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if !strings.Contains(out, "Deletion cancelled") {
		t.Fatalf("expected cancellation, got %q", out)
	}

	out, err = run(t, "y\n", "delete", "0")
	if err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if !strings.Contains(out, "Deleted Sidamo") {
		t.Fatalf("expected deletion, got %q", out)
	}

	if _, err := run(t, "", "show", "0"); err == nil {
		t.Fatalf("expected show of deleted position to fail")
	}
}

func TestAddUsesDefaultScores(t *testing.T) {
	setupCLI(t)

	if _, err := run(t, "", "add", "--coffee", "Sidamo"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	out, err := run(t, "", "show", "0", "--format", "json")
	if err != nil {
		t.Fatalf("show returned error: %v", err)
	}
	var shown showOutput
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show output is not JSON: %v", err)
	}
	got := shown.Tasting
	if got.Acidity != tasting.DefaultAcidity || got.Sweetness != tasting.DefaultSweetness ||
		got.Body != tasting.DefaultBody || got.OverallRating != tasting.DefaultOverallRating {
		t.Fatalf("unexpected default scores: %#v", got)
	}
}

func TestAddRejectsRatingOutOfRange(t *testing.T) {
	setupCLI(t)

	out, err := run(t, "", "add", "--coffee", "Sidamo", "--rating", "11")
	if err == nil {
		t.Fatalf("expected validation error, got output %q", out)
	}
	if !strings.Contains(err.Error(), "Overall Rating") {
		t.Fatalf("expected rating error, got %v", err)
	}
}

func TestEditOnlyChangesGivenFlags(t *testing.T) {
	setupCLI(t)

	if _, err := run(t, "", "add", "--coffee", "Sidamo", "--taster", "Jo", "--rating", "6", "--acidity", "9"); err != nil {
		t.Fatalf("add returned error: %v", err)
	}
	if _, err := run(t, "", "edit", "0", "--rating", "7"); err != nil {
		t.Fatalf("edit returned error: %v", err)
	}

	out, err := run(t, "", "show", "0", "--format", "json")
	if err != nil {
		t.Fatalf("show returned error: %v", err)
	}
	var shown showOutput
	if err := json.Unmarshal([]byte(out), &shown); err != nil {
		t.Fatalf("show output is not JSON: %v", err)
	}
	if shown.Tasting.OverallRating != 7 || shown.Tasting.Acidity != 9 || shown.Tasting.Taster != "Jo" {
		t.Fatalf("unexpected record after edit: %#v", shown.Tasting)
	}

	if _, err := run(t, "", "edit", "0", "--rating", "5", "--revision", "stale"); err == nil {
		t.Fatalf("expected stale revision to be rejected")
	}
}

func TestChart(t *testing.T) {
	setupCLI(t)

	for _, args := range [][]string{
		{"add", "--coffee", "A", "--rating", "4"},
		{"add", "--coffee", "B", "--rating", "10"},
	} {
		if _, err := run(t, "", args...); err != nil {
			t.Fatalf("add returned error: %v", err)
		}
	}

	out, err := run(t, "", "chart")
	if err != nil {
		t.Fatalf("chart returned error: %v", err)
	}
	if strings.Index(out, "B") > strings.Index(out, "4.00") {
		t.Fatalf("expected highest average first: %s", out)
	}
	if !strings.Contains(out, strings.Repeat("█", barWidth)) {
		t.Fatalf("expected full bar for a perfect score: %s", out)
	}
}

func TestShareWritesPNG(t *testing.T) {
	dir := setupCLI(t)
	path := filepath.Join(dir, "qr.png")

	if _, err := run(t, "", "share", "--png", path); err != nil {
		t.Fatalf("share returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected png file: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("expected PNG signature")
	}
}

func TestInvalidStoreFlag(t *testing.T) {
	setupCLI(t)
	if _, err := run(t, "", "--store", "redis", "list"); err == nil {
		t.Fatalf("expected invalid store type error")
	}
}
