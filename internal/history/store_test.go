package history

import (
	"database/sql"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestMigrate_Idempotent(t *testing.T) {
	store := testStore(t)
	if err := store.Migrate(); err != nil {
		t.Fatalf("second migrate failed: %v", err)
	}
}

func TestRecordAndList(t *testing.T) {
	store := testStore(t)

	runs := []Run{
		{RunID: "r1", Repo: "/proj", Outcome: "PASS", Violations: 0},
		{RunID: "r2", Repo: "/proj", Outcome: "WARN", Violations: 12,
			CoveragePct: sql.NullFloat64{Float64: 81.5, Valid: true}, DurationMs: 900},
		{RunID: "r3", Repo: "/proj", Outcome: "BLOCK", Violations: 3, Critical: 1, ToolFailures: 1},
		{RunID: "other", Repo: "/elsewhere", Outcome: "PASS"},
	}
	for _, r := range runs {
		if err := store.Record(r); err != nil {
			t.Fatalf("record %s: %v", r.RunID, err)
		}
	}

	got, err := store.List("/proj", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 runs for /proj, got %d", len(got))
	}
	// Newest first; equal timestamps fall back to insertion order.
	if got[0].RunID != "r3" {
		t.Errorf("expected r3 first, got %s", got[0].RunID)
	}
	if got[0].Critical != 1 || got[0].ToolFailures != 1 {
		t.Errorf("counters lost: %+v", got[0])
	}

	var warn Run
	for _, r := range got {
		if r.RunID == "r2" {
			warn = r
		}
	}
	if !warn.CoveragePct.Valid || warn.CoveragePct.Float64 != 81.5 {
		t.Errorf("coverage pct lost: %+v", warn.CoveragePct)
	}
}

func TestList_Limit(t *testing.T) {
	store := testStore(t)
	for i := 0; i < 5; i++ {
		if err := store.Record(Run{RunID: "r", Repo: "/p", Outcome: "PASS"}); err != nil {
			t.Fatal(err)
		}
	}
	got, err := store.List("/p", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("expected limit of 2, got %d", len(got))
	}
}

func TestRecord_RejectsUnknownOutcome(t *testing.T) {
	store := testStore(t)
	if err := store.Record(Run{RunID: "bad", Repo: "/p", Outcome: "MAYBE"}); err == nil {
		t.Error("schema should reject an unknown outcome")
	}
}

func TestTrends(t *testing.T) {
	store := testStore(t)
	outcomes := []string{"PASS", "PASS", "WARN", "BLOCK"}
	for i, o := range outcomes {
		if err := store.Record(Run{RunID: "r", Repo: "/p", Outcome: o, Violations: i}); err != nil {
			t.Fatal(err)
		}
	}

	points, err := store.Trends("/p", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 1 {
		t.Fatalf("all runs land today, expected 1 point, got %d", len(points))
	}
	p := points[0]
	if p.Runs != 4 || p.Blocked != 1 {
		t.Errorf("unexpected counts: %+v", p)
	}
	if p.PassRate != 75 {
		t.Errorf("WARN counts as passing; expected 75, got %v", p.PassRate)
	}
	if p.AvgViolations != 1.5 {
		t.Errorf("expected avg 1.5, got %v", p.AvgViolations)
	}
}

func TestTrends_EmptyWindow(t *testing.T) {
	store := testStore(t)
	points, err := store.Trends("/p", 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}
