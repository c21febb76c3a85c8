package planning

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records every call and hands out sequential ids.
type fakeBackend struct {
	nextID      RecordID
	nextAssocID int64

	records map[RecordID]Record
	assocs  map[RecordID][]Association

	upserted      []Record
	createdAssocs [][2]int64 // recordID, activityID
	deletedAssocs []int64
	upsertErr     error
	createErr     error
	deleteErr     error
	listAssocErr  error
	onUpsert      func() error // hook invoked before each upsert
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		nextID:      100,
		nextAssocID: 1000,
		records:     make(map[RecordID]Record),
		assocs:      make(map[RecordID][]Association),
	}
}

func (f *fakeBackend) ListRecords(ctx context.Context, projectID string) ([]Record, error) {
	out := make([]Record, 0, len(f.records))
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeBackend) UpsertRecord(ctx context.Context, recArg Record) (RecordID, error) {
	if f.onUpsert != nil {
		if err := f.onUpsert(); err != nil {
			return 0, err
		}
	}
	if f.upsertErr != nil {
		return 0, f.upsertErr
	}
	f.upserted = append(f.upserted, recArg)
	id := recArg.ID
	if id.IsLocal() || id == 0 {
		f.nextID++
		id = f.nextID
	}
	recArg.ID = id
	f.records[id] = recArg
	return id, nil
}

func (f *fakeBackend) ListAssociations(ctx context.Context, id RecordID) ([]Association, error) {
	if f.listAssocErr != nil {
		return nil, f.listAssocErr
	}
	return f.assocs[id], nil
}

func (f *fakeBackend) CreateAssociation(ctx context.Context, id RecordID, activityID int64) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextAssocID++
	f.assocs[id] = append(f.assocs[id], Association{ID: f.nextAssocID, ActivityID: activityID})
	f.createdAssocs = append(f.createdAssocs, [2]int64{int64(id), activityID})
	return nil
}

func (f *fakeBackend) DeleteAssociation(ctx context.Context, associationID int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedAssocs = append(f.deletedAssocs, associationID)
	for recID, assocs := range f.assocs {
		kept := assocs[:0]
		for _, a := range assocs {
			if a.ID != associationID {
				kept = append(kept, a)
			}
		}
		f.assocs[recID] = kept
	}
	return nil
}

func (f *fakeBackend) DeleteRecord(ctx context.Context, id RecordID) error {
	delete(f.records, id)
	delete(f.assocs, id)
	return nil
}

func TestSaveAllAssignsIDsToLocalRecords(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-42, "2024-01-10", 10)))

	require.NoError(t, d.SaveAll(context.Background(), backend))

	saved := d.Bucket(Mercredi)
	require.Len(t, saved, 1)
	assert.False(t, saved[0].ID.IsLocal(), "local id rewritten to the persisted one")
	assert.Equal(t, RecordID(101), saved[0].ID)
	assert.False(t, d.Dirty())
	assert.False(t, d.Saving())
}

func TestSaveAllCreatesMissingAssociations(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-10", 10, 20)))

	require.NoError(t, d.SaveAll(context.Background(), backend))

	require.Len(t, backend.createdAssocs, 2)
	assert.Equal(t, [2]int64{101, 10}, backend.createdAssocs[0])
	assert.Equal(t, [2]int64{101, 20}, backend.createdAssocs[1])
}

func TestSaveAllDiffsAssociationsBothWays(t *testing.T) {
	backend := newFakeBackend()
	backend.records[5] = rec(5, "2024-01-10", 10, 20)
	backend.assocs[5] = []Association{
		{ID: 1, ActivityID: 10},
		{ID: 2, ActivityID: 20},
	}

	d := newTestDraft(rec(5, "2024-01-10", 10, 30))
	require.NoError(t, d.SetRecord(Mercredi, 0, rec(5, "2024-01-10", 10, 30)))

	require.NoError(t, d.SaveAll(context.Background(), backend))

	// 30 is wanted but absent, 20 is present but unwanted, 10 is untouched
	require.Len(t, backend.createdAssocs, 1)
	assert.Equal(t, [2]int64{5, 30}, backend.createdAssocs[0])
	assert.Equal(t, []int64{2}, backend.deletedAssocs)
}

func TestSaveAllIsIdempotentWhenNothingChanged(t *testing.T) {
	backend := newFakeBackend()
	backend.assocs[5] = []Association{{ID: 1, ActivityID: 10}}

	d := newTestDraft(rec(5, "2024-01-10", 10))
	require.NoError(t, d.SetRecord(Mercredi, 0, rec(5, "2024-01-10", 10)))

	require.NoError(t, d.SaveAll(context.Background(), backend))
	assert.Empty(t, backend.createdAssocs)
	assert.Empty(t, backend.deletedAssocs)
}

func TestSaveAllStopsOnFirstRecordError(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-08", 10))) // Lundi, saved first
	require.NoError(t, d.Add(rec(-2, "2024-01-10", 20))) // Mercredi

	calls := 0
	backend.onUpsert = func() error {
		calls++
		if calls == 2 {
			return errors.New("boom")
		}
		return nil
	}

	err := d.SaveAll(context.Background(), backend)
	require.Error(t, err)
	assert.True(t, d.Dirty(), "failed save keeps the draft dirty for retry")
	assert.False(t, d.Saving(), "gate released after failure")
	assert.Len(t, backend.upserted, 1, "later records are not attempted")

	// the Lundi record already got its persisted id; a retry upserts it
	// again instead of re-creating it
	assert.False(t, d.Bucket(Lundi)[0].ID.IsLocal())
}

func TestSaveAllRetryAfterFailureSucceeds(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-08", 10)))
	require.NoError(t, d.Add(rec(-2, "2024-01-10", 20)))

	calls := 0
	backend.onUpsert = func() error {
		calls++
		if calls == 2 {
			return errors.New("transient")
		}
		return nil
	}

	require.Error(t, d.SaveAll(context.Background(), backend))
	require.NoError(t, d.SaveAll(context.Background(), backend))
	assert.False(t, d.Dirty())
	assert.Len(t, backend.records, 2)
}

func TestSaveAllRejectsReentry(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-10", 10)))

	var reentryErr error
	backend.onUpsert = func() error {
		reentryErr = d.SaveAll(context.Background(), backend)
		backend.onUpsert = nil
		return nil
	}

	require.NoError(t, d.SaveAll(context.Background(), backend))
	assert.ErrorIs(t, reentryErr, ErrSaveInFlight)
}

func TestSaveAllRejectsInvalidRecords(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft(rec(5, "2024-01-10", 10))
	require.NoError(t, d.SetRecord(Mercredi, 0, rec(5, "2024-01-10", 10)))
	d.local[Mercredi][0].ActivityIDs = nil // simulate a cleared edit form

	err := d.SaveAll(context.Background(), backend)
	require.Error(t, err)
	assert.Empty(t, backend.upserted)
	assert.True(t, d.Dirty())
}

func TestSaveAllZeroIDFromBackendIsFatal(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-10", 10)))

	zero := &zeroIDBackend{fakeBackend: newFakeBackend()}
	err := d.SaveAll(context.Background(), zero)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no id")
	assert.True(t, d.Dirty())
}

type zeroIDBackend struct {
	*fakeBackend
}

func (z *zeroIDBackend) UpsertRecord(ctx context.Context, rec Record) (RecordID, error) {
	return 0, nil
}

func TestSaveAllCollectsAssociationErrors(t *testing.T) {
	backend := newFakeBackend()
	backend.assocs[5] = []Association{{ID: 1, ActivityID: 99}}
	backend.createErr = errors.New("create failed")
	backend.deleteErr = errors.New("delete failed")

	d := newTestDraft(rec(5, "2024-01-10", 10))
	require.NoError(t, d.SetRecord(Mercredi, 0, rec(5, "2024-01-10", 10)))

	err := d.SaveAll(context.Background(), backend)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create failed")
	assert.Contains(t, err.Error(), "delete failed")
	assert.True(t, d.Dirty())
}

func TestSaveAllRewritesSelectionKeys(t *testing.T) {
	backend := newFakeBackend()
	d := newTestDraft()

	imported := d.Import([]Record{rec(3, "2024-01-03", 30)})
	require.Len(t, imported, 1)
	localID := imported[0].ID

	require.NoError(t, d.SaveAll(context.Background(), backend))

	newID := d.Bucket(Mercredi)[0].ID
	assert.Empty(t, d.SelectedActivities(Mercredi, localID))
	assert.ElementsMatch(t, []int64{30}, d.SelectedActivities(Mercredi, newID))
}
