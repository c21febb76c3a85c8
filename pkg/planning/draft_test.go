package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraft(records ...Record) *Draft {
	return NewDraft(records, date("2024-01-10"), nil)
}

func TestNewDraftStartsClean(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))
	assert.False(t, d.Dirty())
	assert.False(t, d.Saving())
	assert.Len(t, d.Records(), 1)
}

func TestAddBucketsByDate(t *testing.T) {
	d := newTestDraft()
	require.NoError(t, d.Add(rec(-1, "2024-01-08", 10))) // Lundi
	require.Len(t, d.Bucket(Lundi), 1)
	assert.True(t, d.Dirty())
}

func TestAddRejectsOutOfWeekDates(t *testing.T) {
	d := newTestDraft()
	assert.Error(t, d.Add(rec(-1, "2024-01-20", 10)))
	assert.Error(t, d.Add(rec(-1, "bad-date", 10)))
	assert.False(t, d.Dirty(), "a rejected add must not dirty the draft")
}

func TestSetRecordForcesBucketDate(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))

	edited := rec(1, "2024-01-03", 10, 20) // stale date from the edit form
	require.NoError(t, d.SetRecord(Mercredi, 0, edited))

	got := d.Bucket(Mercredi)[0]
	assert.Equal(t, "2024-01-10", got.Date, "date must follow the bucket")
	assert.Equal(t, []int64{10, 20}, got.ActivityIDs)
	assert.True(t, d.Dirty())
}

func TestSetRecordDeduplicatesActivities(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))
	require.NoError(t, d.SetRecord(Mercredi, 0, rec(1, "2024-01-10", 10, 20, 10)))
	assert.Equal(t, []int64{10, 20}, d.Bucket(Mercredi)[0].ActivityIDs)
}

func TestSetRecordBoundsChecks(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))
	assert.Error(t, d.SetRecord(Mercredi, 5, rec(1, "2024-01-10", 10)))
	assert.Error(t, d.SetRecord(Day(9), 0, rec(1, "2024-01-10", 10)))
	assert.False(t, d.Dirty())
}

func TestRemove(t *testing.T) {
	d := newTestDraft(
		rec(1, "2024-01-10", 10),
		rec(2, "2024-01-10", 20),
	)
	removed, ok := d.Remove(Mercredi, 0)
	require.True(t, ok)
	assert.Equal(t, RecordID(1), removed.ID)
	require.Len(t, d.Bucket(Mercredi), 1)
	assert.Equal(t, RecordID(2), d.Bucket(Mercredi)[0].ID)
	assert.True(t, d.Dirty())
}

func TestRemoveOutOfRange(t *testing.T) {
	d := newTestDraft()
	_, ok := d.Remove(Mercredi, 0)
	assert.False(t, ok)
	_, ok = d.Remove(Day(-3), 0)
	assert.False(t, ok)
	assert.False(t, d.Dirty())
}

func TestRemoveDropsSelection(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))
	d.SelectActivities(Mercredi, 1, []int64{10, 20})
	require.Len(t, d.SelectedActivities(Mercredi, 1), 2)

	_, ok := d.Remove(Mercredi, 0)
	require.True(t, ok)
	assert.Empty(t, d.SelectedActivities(Mercredi, 1))
}

func TestSelectionsAreIndependentPerDayAndRecord(t *testing.T) {
	d := newTestDraft()
	d.SelectActivities(Lundi, 7, []int64{1})
	d.SelectActivities(Mardi, 7, []int64{2, 3})

	assert.ElementsMatch(t, []int64{1}, d.SelectedActivities(Lundi, 7))
	assert.ElementsMatch(t, []int64{2, 3}, d.SelectedActivities(Mardi, 7))
	assert.Empty(t, d.SelectedActivities(Mercredi, 7))
}

func TestBucketReturnsCopies(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10))
	got := d.Bucket(Mercredi)
	got[0].ActivityIDs[0] = 999
	assert.Equal(t, int64(10), d.Bucket(Mercredi)[0].ActivityIDs[0])
}

func TestNewLocalIDIsNegativeAndUnique(t *testing.T) {
	seen := make(map[RecordID]bool)
	for i := 0; i < 1000; i++ {
		id := NewLocalID()
		assert.True(t, id.IsLocal())
		assert.False(t, seen[id], "duplicate local id %d", id)
		seen[id] = true
	}
}

func TestRecordValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Record)
		wantErr bool
	}{
		{"valid", func(r *Record) {}, false},
		{"empty times allowed", func(r *Record) { r.StartTime, r.EndTime = "", "" }, false},
		{"bad start time", func(r *Record) { r.StartTime = "8h30" }, true},
		{"hour out of range", func(r *Record) { r.EndTime = "25:00" }, true},
		{"negative lab quantity", func(r *Record) { r.LabRequired = true; r.LabQuantity = -1 }, true},
		{"bad date", func(r *Record) { r.Date = "10/01/2024" }, true},
		{"no activities", func(r *Record) { r.ActivityIDs = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := rec(1, "2024-01-10", 10)
			r.StartTime, r.EndTime = "08:00", "17:30"
			tt.mutate(&r)
			err := r.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
