package storage_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codewithboateng/purslint/internal/ir"
	"github.com/codewithboateng/purslint/internal/storage"
)

func openTestDB(t *testing.T) *storage.DB {
	t.Helper()
	db, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.CreateSchema())
	return db
}

func sampleRun(id string, started time.Time) *ir.Run {
	return &ir.Run{
		ID:        id,
		StartedAt: started,
		Source:    "src",
		IRVersion: ir.Version,
		Files: []ir.FileResult{
			{Path: "src/App/Main.purs", Metrics: ir.Metrics{Lines: 10, CodeLines: 8, BlankLines: 2, MaxWidth: 42}},
			{Path: "src/App/Util.purs", Metrics: ir.Metrics{Lines: 5, CodeLines: 5, MaxWidth: 30}},
		},
		Violations: []ir.Violation{
			{
				ID: "MODULE-NAME-PLURAL-0000002a", File: "src/App/Main.purs", Line: 1,
				RuleID: "MODULE-NAME-PLURAL", Category: ir.CategoryNaming, Severity: ir.SeverityAdvisory,
				Message: `module segment "Helpers" looks plural; prefer the singular "Helper"`, Evidence: "App.Helpers",
			},
			{
				ID: "LINE-TOO-LONG-0000001a", File: "src/App/Main.purs", Line: 3, Column: 81,
				RuleID: "LINE-TOO-LONG", Category: ir.CategoryFormatting, Severity: ir.SeverityWarning,
				Message: "line is 90 characters long (max 80)",
			},
			{
				ID: "ORG-FATAL-0000003a", File: "src/App/Util.purs", Line: 2,
				RuleID: "ORG-FATAL", Category: ir.CategoryFormatting, Severity: ir.SeverityError,
				Message: "flagged",
			},
		},
	}
}

func TestSaveRun_LoadRunRoundTrip(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))

	require.NoError(t, db.SaveRun(run))

	got, err := db.LoadRun("run-1")
	require.NoError(t, err)
	assert.Equal(t, *run, got)

	_, err = db.LoadRun("no-such-run")
	assert.Error(t, err)
}

func TestSaveRun_UpsertReplacesViolations(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, db.SaveRun(run))

	smaller := *run
	smaller.Violations = run.Violations[:1]
	require.NoError(t, db.SaveRun(&smaller))

	vs, err := db.ListViolations("run-1", "")
	require.NoError(t, err)
	assert.Len(t, vs, 1)

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Violations)
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := openTestDB(t)
	older := sampleRun("run-a", time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC))
	newer := sampleRun("run-b", time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC))
	require.NoError(t, db.SaveRun(older))
	require.NoError(t, db.SaveRun(newer))

	rows, err := db.ListRuns(10, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "run-b", rows[0].ID)
	assert.Equal(t, "run-a", rows[1].ID)
	assert.Equal(t, 2, rows[0].Files)
	assert.Equal(t, 3, rows[0].Violations)
	assert.True(t, rows[0].StartedAt.Equal(newer.StartedAt))

	page, err := db.ListRuns(1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "run-a", page[0].ID)
}

func TestListViolations_SeverityFilterAndOrder(t *testing.T) {
	db := openTestDB(t)
	run := sampleRun("run-1", time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC))
	require.NoError(t, db.SaveRun(run))

	all, err := db.ListViolations("run-1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	// report order: file, then line
	assert.Equal(t, "MODULE-NAME-PLURAL", all[0].RuleID)
	assert.Equal(t, "LINE-TOO-LONG", all[1].RuleID)
	assert.Equal(t, "ORG-FATAL", all[2].RuleID)

	warnUp, err := db.ListViolations("run-1", ir.SeverityWarning)
	require.NoError(t, err)
	require.Len(t, warnUp, 2)
	for _, v := range warnUp {
		assert.NotEqual(t, ir.SeverityAdvisory, v.Severity)
	}

	errOnly, err := db.ListViolations("run-1", ir.SeverityError)
	require.NoError(t, err)
	require.Len(t, errOnly, 1)
	assert.Equal(t, "ORG-FATAL", errOnly[0].RuleID)
}

func TestHasRun(t *testing.T) {
	db := openTestDB(t)

	ok, err := db.HasRun("run-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.SaveRun(sampleRun("run-1", time.Now().UTC())))
	ok, err = db.HasRun("run-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestWaivers_Lifecycle(t *testing.T) {
	db := openTestDB(t)
	now := time.Now().UTC()

	live, err := db.CreateWaiver("LINE-TOO-LONG", "App/Main", "selectAll", "generated query", "ci", now.Add(24*time.Hour))
	require.NoError(t, err)
	expired, err := db.CreateWaiver("TAB-IN-SOURCE", "", "", "legacy file", "dev", now.Add(-time.Hour))
	require.NoError(t, err)

	active, err := db.ListWaivers(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	w := active[0]
	assert.Equal(t, live, w.ID)
	assert.Equal(t, "LINE-TOO-LONG", w.RuleID)
	assert.Equal(t, "App/Main", w.File)
	assert.Equal(t, "selectAll", w.PatternSub)
	assert.Equal(t, "generated query", w.Reason)
	assert.Equal(t, "ci", w.CreatedBy)
	assert.True(t, w.ExpiresAt.Equal(now.Add(24*time.Hour)))
	assert.Nil(t, w.RevokedAt)

	all, err := db.ListWaivers(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	// newest id first
	assert.Equal(t, expired, all[0].ID)
	assert.Equal(t, live, all[1].ID)
	// the optional columns come back empty, not null-ish junk
	assert.Equal(t, "", all[0].File)
	assert.Equal(t, "", all[0].PatternSub)

	require.NoError(t, db.RevokeWaiver(live))

	active, err = db.ListWaivers(true)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err = db.ListWaivers(false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.NotNil(t, all[1].RevokedAt)
}
