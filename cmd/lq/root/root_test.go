package root

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("LQ_DB_PATH", filepath.Join(dir, "lq.db"))
	t.Setenv("LQ_TIMEZONE", "UTC")
	t.Setenv("LQ_LOG_LEVEL", "error")
	t.Setenv("LQ_TUNING_PATH", "")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("lq %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestHabitLifecycle(t *testing.T) {
	setupEnv(t)

	out := mustRun(t, "habit", "add", "Reading", "--points", "20", "--category", "learning")
	if !strings.Contains(out, "Reading") {
		t.Fatalf("add output=%q", out)
	}

	out = mustRun(t, "do", "reading")
	if !strings.Contains(out, "Completed") {
		t.Fatalf("do output=%q", out)
	}
	out = mustRun(t, "do", "Reading")
	if !strings.Contains(out, "Already done today") {
		t.Fatalf("second do output=%q", out)
	}

	out = mustRun(t, "habit", "list")
	for _, name := range []string{"Morning Meditation", "Exercise", "Reading"} {
		if !strings.Contains(out, name) {
			t.Fatalf("list missing %q:\n%s", name, out)
		}
	}
}

func TestUnknownHabit(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "do", "juggling"); err == nil {
		t.Fatalf("expected error for unknown habit")
	}
}

func TestRedeemWithoutPoints(t *testing.T) {
	setupEnv(t)
	out := mustRun(t, "redeem", "Coffee Shop Visit")
	if !strings.Contains(out, "Not enough points") {
		t.Fatalf("redeem output=%q", out)
	}
}

func TestResetNeedsConfirmation(t *testing.T) {
	setupEnv(t)
	if _, err := run(t, "reset"); err == nil {
		t.Fatalf("expected reset without --yes to fail")
	}
	mustRun(t, "reset", "--yes")
}

func TestTravelLockedWorld(t *testing.T) {
	setupEnv(t)
	_, err := run(t, "travel", "ocean")
	if err == nil {
		t.Fatalf("expected travel to a locked world to fail")
	}
	if got := renderError(err); !strings.Contains(got, "level 4") {
		t.Fatalf("renderError=%q", got)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	dir := setupEnv(t)
	mustRun(t, "habit", "add", "Journaling")

	path := filepath.Join(dir, "backup.json.zst")
	mustRun(t, "export", path)
	mustRun(t, "reset", "--yes")

	out := mustRun(t, "habit", "list")
	if strings.Contains(out, "Journaling") {
		t.Fatalf("habit survived reset:\n%s", out)
	}

	mustRun(t, "import", path)
	out = mustRun(t, "habit", "list")
	if !strings.Contains(out, "Journaling") {
		t.Fatalf("habit missing after import:\n%s", out)
	}
}

func TestBadTuningPath(t *testing.T) {
	dir := setupEnv(t)
	t.Setenv("LQ_TUNING_PATH", filepath.Join(dir, "missing.yaml"))
	if _, err := run(t, "status"); err == nil {
		t.Fatalf("expected error for a missing tuning file")
	}
}
