package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fluentnotes/fluent-notes/pkg/logger"
)

func newTestStorage(t *testing.T) *MeetingStorage {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	storage, err := NewMeetingStorage(db, logger.NewNop())
	require.NoError(t, err)
	return storage
}

func TestUpsertGetRoundTrip(t *testing.T) {
	storage := newTestStorage(t)

	record := &MeetingRecord{
		JobID:       "job-1",
		Filename:    "job-1.wav",
		Status:      StatusComplete,
		Transcript:  "Alice will send the report by Friday.",
		Summary:     "Short sync about the quarterly report.",
		ActionItems: []string{"Alice will send the report by Friday."},
		Decisions:   []string{},
	}
	require.NoError(t, storage.Upsert(record))

	got, err := storage.Get("job-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "job-1", got.JobID)
	require.Equal(t, "job-1.wav", got.Filename)
	require.Equal(t, StatusComplete, got.Status)
	require.Equal(t, record.Transcript, got.Transcript)
	require.Equal(t, record.Summary, got.Summary)
	require.Equal(t, []string{"Alice will send the report by Friday."}, got.ActionItems)
	require.Equal(t, []string{}, got.Decisions)
	require.False(t, got.CreatedAt.IsZero())
	require.False(t, got.UpdatedAt.IsZero())
}

func TestGetAbsentReturnsNil(t *testing.T) {
	storage := newTestStorage(t)

	got, err := storage.Get("no-such-job")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestUpsertIsIdempotentOverwrite(t *testing.T) {
	storage := newTestStorage(t)

	first := &MeetingRecord{
		JobID:      "job-1",
		Filename:   "job-1.wav",
		Status:     StatusProcessing,
		Transcript: "",
	}
	require.NoError(t, storage.Upsert(first))

	created, err := storage.Get("job-1")
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)

	second := &MeetingRecord{
		JobID:       "job-1",
		Filename:    "job-1.wav",
		Status:      StatusComplete,
		Transcript:  "Full transcript text.",
		Summary:     "A summary.",
		ActionItems: []string{"Do the thing."},
		Decisions:   []string{"Ship it."},
	}
	require.NoError(t, storage.Upsert(second))

	// Exactly one record with the latest payload
	records, err := storage.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, StatusComplete, records[0].Status)
	require.Equal(t, "Full transcript text.", records[0].Transcript)

	// created_at is preserved across updates, updated_at is refreshed
	require.Equal(t, created.CreatedAt, records[0].CreatedAt)
	require.True(t, records[0].UpdatedAt.After(created.UpdatedAt))
}

func TestListFieldsNeverNil(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:    "job-1",
		Filename: "job-1.wav",
		Status:   StatusProcessing,
		// ActionItems and Decisions deliberately nil
	}))

	got, err := storage.Get("job-1")
	require.NoError(t, err)
	require.NotNil(t, got.ActionItems)
	require.NotNil(t, got.Decisions)
	require.Empty(t, got.ActionItems)
	require.Empty(t, got.Decisions)
}

func TestListOrderedMostRecentFirst(t *testing.T) {
	storage := newTestStorage(t)

	for _, id := range []string{"job-a", "job-b", "job-c"} {
		require.NoError(t, storage.Upsert(&MeetingRecord{
			JobID:    id,
			Filename: id + ".wav",
			Status:   StatusComplete,
		}))
		time.Sleep(10 * time.Millisecond)
	}

	records, err := storage.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "job-c", records[0].JobID)
	require.Equal(t, "job-b", records[1].JobID)
	require.Equal(t, "job-a", records[2].JobID)
}

func TestSearchConsistentWithWrites(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:      "job-1",
		Filename:   "job-1.wav",
		Status:     StatusComplete,
		Transcript: "The kickoff covered the flambeau project roadmap.",
	}))
	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:      "job-2",
		Filename:   "job-2.wav",
		Status:     StatusComplete,
		Transcript: "Budget review, nothing unusual.",
	}))

	// A term unique to job-1's transcript finds exactly that record
	results, err := storage.Search("flambeau")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "job-1", results[0].JobID)
	// Full records come back, not just snippets
	require.Equal(t, "job-1.wav", results[0].Filename)

	// Updating the transcript updates the index in the same transaction
	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:      "job-1",
		Filename:   "job-1.wav",
		Status:     StatusComplete,
		Transcript: "Rewritten transcript without the old codename.",
	}))
	results, err = storage.Search("flambeau")
	require.NoError(t, err)
	require.Empty(t, results)

	results, err = storage.Search("rewritten")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestDeleteRemovesIndexEntry(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:      "job-1",
		Filename:   "job-1.wav",
		Status:     StatusComplete,
		Transcript: "An entirely forgettable standup about xylophone procurement.",
	}))

	results, err := storage.Search("xylophone")
	require.NoError(t, err)
	require.Len(t, results, 1)

	require.NoError(t, storage.Delete("job-1"))

	got, err := storage.Get("job-1")
	require.NoError(t, err)
	require.Nil(t, got)

	results, err = storage.Search("xylophone")
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestSearchBagOfTerms(t *testing.T) {
	storage := newTestStorage(t)

	require.NoError(t, storage.Upsert(&MeetingRecord{
		JobID:      "job-1",
		Filename:   "job-1.wav",
		Status:     StatusComplete,
		Transcript: "Alice will send the quarterly report by Friday.",
	}))

	results, err := storage.Search("quarterly report")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "job-1", results[0].JobID)
}
