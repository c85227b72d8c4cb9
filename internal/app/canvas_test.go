package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelyear/pixelyear/internal/logging"
	"github.com/pixelyear/pixelyear/internal/planner"
	"github.com/pixelyear/pixelyear/internal/storage"
)

type canvasFixture struct {
	canvas   *Canvas
	store    *storage.Store
	notifies int
}

func setupCanvas(t *testing.T, year int) *canvasFixture {
	t.Helper()
	ctx := context.Background()

	store, err := storage.InitDatabase(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	f := &canvasFixture{store: store}
	f.canvas = NewCanvas(year, store.DB, store.Annotations, logging.NewDiscard())
	f.canvas.SetNotify(func(context.Context) { f.notifies++ })
	return f
}

func TestCanvas_PaintPersistsAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	err := f.canvas.Paint(ctx, "2025-03-04", planner.Annotation{Color: "red", Note: "dentist"})
	require.NoError(t, err)

	ann, ok := f.canvas.Get("2025-03-04")
	require.True(t, ok)
	assert.Equal(t, "red", ann.Color)

	rows, err := f.store.Annotations.ListYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, planner.Annotation{Color: "red", Note: "dentist"}, rows["2025-03-04"])

	assert.Equal(t, 1, f.notifies)
}

func TestCanvas_PaintRejectsOtherYears(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	err := f.canvas.Paint(ctx, "2024-03-04", planner.Annotation{Color: "red"})
	require.Error(t, err)
	assert.Zero(t, f.canvas.Len())
	assert.Zero(t, f.notifies)
}

func TestCanvas_EraseRemovesAndNotifies(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	require.NoError(t, f.canvas.Paint(ctx, "2025-03-04", planner.Annotation{Color: "red"}))
	require.NoError(t, f.canvas.Erase(ctx, "2025-03-04"))

	_, ok := f.canvas.Get("2025-03-04")
	assert.False(t, ok)

	rows, err := f.store.Annotations.ListYear(ctx, 2025)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Equal(t, 2, f.notifies)
}

func TestCanvas_LoadHydratesWithoutNotifying(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	require.NoError(t, f.store.Annotations.Upsert(ctx, 2025, "2025-06-01", planner.Annotation{Color: "blue"}))

	require.NoError(t, f.canvas.Load(ctx))

	assert.Equal(t, 1, f.canvas.Len())
	assert.Zero(t, f.notifies, "hydration must never schedule a push")
}

func TestCanvas_SwapYearLoadsOtherPartition(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	require.NoError(t, f.canvas.Paint(ctx, "2025-01-01", planner.Annotation{Color: "red"}))
	require.NoError(t, f.store.Annotations.Upsert(ctx, 2026, "2026-05-05", planner.Annotation{Color: "gold"}))
	before := f.notifies

	require.NoError(t, f.canvas.SwapYear(ctx, 2026))

	assert.Equal(t, 2026, f.canvas.Year())
	assert.Equal(t, 1, f.canvas.Len())
	_, ok := f.canvas.Get("2026-05-05")
	assert.True(t, ok)
	assert.Equal(t, before, f.notifies, "a year switch must not notify; the engine re-pulls instead")
}

func TestCanvas_ReplaceRewritesYearAndNotifiesOnce(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	require.NoError(t, f.canvas.Paint(ctx, "2025-01-01", planner.Annotation{Color: "red"}))
	require.NoError(t, f.canvas.Paint(ctx, "2025-01-02", planner.Annotation{Color: "blue"}))
	before := f.notifies

	f.canvas.Replace(map[string]planner.Annotation{
		"2025-02-02": {Color: "green"},
	})

	assert.Equal(t, 1, f.canvas.Len(), "replace is wholesale")
	rows, err := f.store.Annotations.ListYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, map[string]planner.Annotation{"2025-02-02": {Color: "green"}}, rows)

	assert.Equal(t, before+1, f.notifies, "replace notifies exactly once")
}

func TestCanvas_ReplaceDropsDaysOutsideActiveYear(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	f.canvas.Replace(map[string]planner.Annotation{
		"2025-02-02": {Color: "green"},
		"2024-12-31": {Color: "red"},
	})

	assert.Equal(t, 1, f.canvas.Len())
	rows, err := f.store.Annotations.ListYear(ctx, 2024)
	require.NoError(t, err)
	assert.Empty(t, rows, "foreign-year days must not land in local storage")
}

func TestCanvas_ReplaceIgnoresForeignYearStraggler(t *testing.T) {
	ctx := context.Background()
	f := setupCanvas(t, 2025)

	require.NoError(t, f.canvas.Paint(ctx, "2025-01-01", planner.Annotation{Color: "red"}))
	before := f.notifies

	// a replacement carrying only another year's days is a late event
	// from before a year switch; it must not wipe the active year
	f.canvas.Replace(map[string]planner.Annotation{
		"2024-12-30": {Color: "gray"},
		"2024-12-31": {Color: "gray"},
	})

	assert.Equal(t, 1, f.canvas.Len())
	_, ok := f.canvas.Get("2025-01-01")
	assert.True(t, ok)
	assert.Equal(t, before+1, f.notifies, "even an ignored replacement consumes its notification")
}
