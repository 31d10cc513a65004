package library

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tvrecon/internal/episode"
	"github.com/vmunix/tvrecon/internal/watch"
)

func TestStore_Assign(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.SaveSeries(ctx, testDocument(), "run-1"))

	r, err := store.Assign(ctx, "Ax Men", "shock and saw!", 2, 7, "Shock and Saw", nil)
	require.NoError(t, err)
	assert.True(t, r.Matched)
	assert.Equal(t, "Ax Men - S02E07 - Shock and Saw", r.StandardName)
	assert.Equal(t, ManualProvider, r.Providers[0].Provider)

	got, err := store.GetRecord(ctx, "Ax Men", 2, 7)
	require.NoError(t, err)
	assert.Equal(t, "Shock and Saw", got.Subtitle)

	_, total, err := store.ListRecords(ctx, RecordFilter{Matched: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, 0, total)

	assignments, err := store.ListAssignments(ctx, "Ax Men")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "shock and saw", assignments[0].SubtitleKey)
}

func TestStore_Assign_Errors(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.SaveSeries(ctx, testDocument(), "run-1"))

	_, err := store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 0, "x", nil)
	assert.ErrorIs(t, err, ErrInvalidAssignment)

	_, err = store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 6, "Taken", nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.Assign(ctx, "Ax Men", "Not Recorded", 2, 9, "Nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.Assign(ctx, "Unknown", "Shock and Saw", 1, 1, "Nope", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// Failed assignments leave nothing behind.
	assignments, err := store.ListAssignments(ctx, "Ax Men")
	require.NoError(t, err)
	assert.Empty(t, assignments)
}

func TestStore_ApplyAssignments(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.SaveSeries(ctx, testDocument(), "run-1"))
	_, err := store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 7, "Shock and Saw", nil)
	require.NoError(t, err)

	// A later run rebuilds the record unmatched again.
	doc, applied, err := store.ApplyAssignments(ctx, testDocument(), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	assert.Empty(t, doc.Unmatched())

	r, ok := findRecord(doc, 2, 7)
	require.True(t, ok)
	assert.Equal(t, "Ax Men - S02E07 - Shock and Saw", r.StandardName)
}

func TestStore_ApplyAssignments_SkipsTakenSlot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.SaveSeries(ctx, testDocument(), "run-1"))
	_, err := store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 7, "Shock and Saw", nil)
	require.NoError(t, err)

	// Providers now list S02E07 and the matcher filed another recording there.
	next := episode.NewDocument("Ax Men", []episode.Record{
		matched(2, 7, "Shock and Saw Redux"),
		unmatched("Shock and Saw"),
	})
	doc, applied, err := store.ApplyAssignments(ctx, next, nil)
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.Len(t, doc.Unmatched(), 1)
}

// recordedUnmatched is an unmatched recording with a canonical file, as the
// engine emits it when no provider lists the episode.
func recordedUnmatched(subtitle, path string) episode.Record {
	r := unmatched(subtitle)
	r.Canonical = path
	r.Files = []episode.File{{Path: path, Size: 100, Kind: "video", Canonical: true}}
	return r
}

func TestStore_AssignmentRefreshesWatched(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	doc := episode.NewDocument("Ax Men", []episode.Record{
		matched(2, 5, "One More Time"),
		recordedUnmatched("Shock and Saw", "/rec/Ax Men_Shock.ts"),
	})
	require.NoError(t, store.SaveSeries(ctx, doc, "run-1"))

	// Kodi only knows the episode by its library name.
	history := watch.NewSet()
	history.Add("", "Ax.Men.S02E07.Shock.and.Saw")

	r, err := store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 7, "Shock and Saw", history)
	require.NoError(t, err)
	assert.True(t, r.Watched)

	got, err := store.GetRecord(ctx, "Ax Men", 2, 7)
	require.NoError(t, err)
	assert.True(t, got.Watched)

	// The next run rebuilds the record unmatched and unwatched.
	next, applied, err := store.ApplyAssignments(ctx, doc, history)
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
	rec, ok := findRecord(next, 2, 7)
	require.True(t, ok)
	assert.True(t, rec.Watched)

	// Without history the status is left alone.
	next, _, err = store.ApplyAssignments(ctx, doc, nil)
	require.NoError(t, err)
	rec, ok = findRecord(next, 2, 7)
	require.True(t, ok)
	assert.False(t, rec.Watched)
}

func TestStore_DeleteAssignment(t *testing.T) {
	ctx := context.Background()
	store := NewStore(setupTestDB(t))
	require.NoError(t, store.SaveSeries(ctx, testDocument(), "run-1"))
	_, err := store.Assign(ctx, "Ax Men", "Shock and Saw", 2, 7, "Shock and Saw", nil)
	require.NoError(t, err)

	require.NoError(t, store.DeleteAssignment(ctx, "Ax Men", "SHOCK AND SAW"))
	require.NoError(t, store.DeleteAssignment(ctx, "Ax Men", "SHOCK AND SAW"))

	doc, applied, err := store.ApplyAssignments(ctx, testDocument(), nil)
	require.NoError(t, err)
	assert.Zero(t, applied)
	assert.Len(t, doc.Unmatched(), 1)
}

func findRecord(doc *episode.Document, season, ep int) (episode.Record, bool) {
	for _, r := range doc.Records() {
		if r.Season == season && r.Episode == ep {
			return r, true
		}
	}
	return episode.Record{}, false
}
