package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/odorcolor/internal/config"
	"github.com/ashureev/odorcolor/internal/domain"
	"github.com/ashureev/odorcolor/internal/store"
	"github.com/ashureev/odorcolor/internal/survey"
)

var fixedNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T, n int) (*App, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := store.Open(store.DriverFile, dir, "responses")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	for i := 0; i < n; i++ {
		ts := fixedNow.Add(-time.Duration(n-i) * time.Hour)
		if err := repo.AppendResponse(context.Background(), domain.NewResponse(ts, domain.DefaultSlots())); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	_ = repo.Close()

	noPrompt := func(string, string) (bool, error) {
		t.Error("unexpected confirmation prompt")
		return false, nil
	}
	app := &App{
		Store:   config.StoreConfig{Driver: store.DriverFile, Path: dir, Key: "responses"},
		Labels:  survey.DefaultLabels,
		Confirm: noPrompt,
		Now:     func() time.Time { return fixedNow },
	}
	return app, dir
}

func run(t *testing.T, app *App, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := app.RootCmd("test")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func storedCount(t *testing.T, app *App) int {
	t.Helper()
	repo, err := app.open()
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = repo.Close() }()
	return len(repo.LoadResponses(context.Background()))
}

func TestListEmpty(t *testing.T) {
	app, _ := newTestApp(t, 0)
	out, err := run(t, app, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "No responses stored.") {
		t.Fatalf("output = %q", out)
	}
}

func TestListShowsRows(t *testing.T) {
	app, _ := newTestApp(t, 3)
	out, err := run(t, app, "list", "--limit", "2")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Odor A") || !strings.Contains(out, "#ff3333") {
		t.Fatalf("output missing headers or colors:\n%s", out)
	}
	if strings.Contains(out, "2026-10-19T06:00:00.000Z") {
		t.Fatalf("limit did not drop the oldest row:\n%s", out)
	}
	if !strings.Contains(out, "3 responses, latest 1 hour ago") {
		t.Fatalf("summary line missing:\n%s", out)
	}
}

func TestExportDefaultFilename(t *testing.T) {
	app, _ := newTestApp(t, 2)
	wd := t.TempDir()
	t.Chdir(wd)

	if _, err := run(t, app, "export"); err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(wd, "odor-color-responses-2026-10-19.csv"))
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if lines := strings.Split(string(data), "\n"); len(lines) != 3 {
		t.Fatalf("csv lines = %d, want 3", len(lines))
	}
}

func TestExportStdout(t *testing.T) {
	app, _ := newTestApp(t, 1)
	out, err := run(t, app, "export", "--out", "-")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if !strings.HasPrefix(out, "timestamp,odor1_hex") {
		t.Fatalf("output = %q", out)
	}
}

func TestClearAsksForConfirmation(t *testing.T) {
	app, _ := newTestApp(t, 2)

	var asked string
	app.Confirm = func(title, _ string) (bool, error) {
		asked = title
		return false, nil
	}
	out, err := run(t, app, "clear")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if asked != "Delete all 2 stored responses?" || !strings.Contains(out, "Aborted") {
		t.Fatalf("asked = %q out = %q", asked, out)
	}
	if storedCount(t, app) != 2 {
		t.Fatal("declined clear deleted data")
	}

	app.Confirm = func(string, string) (bool, error) { return true, nil }
	if _, err := run(t, app, "clear"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if storedCount(t, app) != 0 {
		t.Fatal("confirmed clear left data")
	}
}

func TestClearYesSkipsPrompt(t *testing.T) {
	app, _ := newTestApp(t, 1)
	out, err := run(t, app, "clear", "--yes")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if !strings.Contains(out, "Deleted 1 responses.") || storedCount(t, app) != 0 {
		t.Fatalf("out = %q", out)
	}
}

func TestClearPromptError(t *testing.T) {
	app, _ := newTestApp(t, 1)
	app.Confirm = func(string, string) (bool, error) { return false, errors.New("no tty") }
	if _, err := run(t, app, "clear"); err == nil {
		t.Fatal("expected prompt error")
	}
	if storedCount(t, app) != 1 {
		t.Fatal("failed prompt deleted data")
	}
}

func TestPlotAndWheelWritePNG(t *testing.T) {
	app, _ := newTestApp(t, 1)
	dir := t.TempDir()

	for _, args := range [][]string{
		{"plot", "--out", filepath.Join(dir, "plot.png"), "--size", "120"},
		{"wheel", "--out", filepath.Join(dir, "wheel.png"), "--size", "120"},
	} {
		if _, err := run(t, app, args...); err != nil {
			t.Fatalf("%s: %v", args[0], err)
		}
		data, err := os.ReadFile(args[2])
		if err != nil {
			t.Fatalf("read %s: %v", args[2], err)
		}
		if !bytes.HasPrefix(data, []byte("\x89PNG")) {
			t.Fatalf("%s is not a PNG", args[2])
		}
	}
}

func TestUnknownDriver(t *testing.T) {
	app, _ := newTestApp(t, 0)
	if _, err := run(t, app, "list", "--driver", "redis"); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestImageCommandsRejectOversizedMargin(t *testing.T) {
	app, _ := newTestApp(t, 1)
	dir := t.TempDir()

	for _, args := range [][]string{
		{"wheel", "--out", filepath.Join(dir, "wheel.png"), "--size", "16", "--margin", "8"},
		{"plot", "--out", filepath.Join(dir, "plot.png"), "--size", "16", "--margin", "8"},
		{"wheel", "--out", filepath.Join(dir, "neg.png"), "--margin=-1"},
	} {
		_, err := run(t, app, args...)
		if err == nil || !strings.Contains(err.Error(), "--") {
			t.Fatalf("%v: err = %v, want a size/margin error", args, err)
		}
		if _, statErr := os.Stat(args[2]); !os.IsNotExist(statErr) {
			t.Fatalf("%v: wrote %s despite invalid geometry", args, args[2])
		}
	}
}
