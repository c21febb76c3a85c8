package planning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportRedatesToSameWeekday(t *testing.T) {
	d := newTestDraft() // week 2024-01-07 .. 2024-01-13

	imported := d.Import([]Record{rec(3, "2024-01-03", 30)}) // a past Wednesday

	require.Len(t, imported, 1)
	clone := imported[0]
	assert.Equal(t, "2024-01-10", clone.Date, "clone lands on this week's Wednesday")
	assert.True(t, clone.ID.IsLocal(), "clone gets a fresh local id")
	assert.NotEqual(t, RecordID(3), clone.ID)
	assert.Equal(t, []int64{30}, clone.ActivityIDs)

	require.Len(t, d.Bucket(Mercredi), 1)
	assert.True(t, d.Dirty())
}

func TestImportSkipsOnAnySharedActivity(t *testing.T) {
	d := newTestDraft(rec(1, "2024-01-10", 10, 20))

	imported := d.Import([]Record{rec(3, "2024-01-03", 20, 99)}) // shares 20

	assert.Empty(t, imported)
	assert.Len(t, d.Bucket(Mercredi), 1)
	assert.False(t, d.Dirty(), "nothing imported, draft stays clean")
}

func TestImportDuplicateCheckIsPerBucket(t *testing.T) {
	// Same activity on a different day is not a duplicate.
	d := newTestDraft(rec(1, "2024-01-08", 10)) // Lundi

	imported := d.Import([]Record{rec(3, "2024-01-03", 10)}) // targets Mercredi

	require.Len(t, imported, 1)
	assert.Len(t, d.Bucket(Mercredi), 1)
}

func TestImportSeesEarlierClonesInSameBatch(t *testing.T) {
	d := newTestDraft()

	imported := d.Import([]Record{
		rec(3, "2024-01-03", 30),
		rec(4, "2023-12-27", 30), // also a Wednesday, same activity
	})

	require.Len(t, imported, 1, "second candidate collides with the first clone")
	assert.Len(t, d.Bucket(Mercredi), 1)
}

func TestImportSkipsUnparsableDatesIndependently(t *testing.T) {
	d := newTestDraft()

	imported := d.Import([]Record{
		rec(3, "garbage", 30),
		rec(4, "2024-01-03", 40),
	})

	require.Len(t, imported, 1)
	assert.Equal(t, []int64{40}, imported[0].ActivityIDs)
}

func TestImportPreservesSourceRecords(t *testing.T) {
	d := newTestDraft()
	src := rec(3, "2024-01-03", 30)

	imported := d.Import([]Record{src})

	require.Len(t, imported, 1)
	assert.Equal(t, RecordID(3), src.ID, "source keeps its id")
	assert.Equal(t, "2024-01-03", src.Date, "source keeps its date")

	// mutating the returned clone does not reach into the draft
	imported[0].ActivityIDs[0] = 999
	assert.Equal(t, int64(30), d.Bucket(Mercredi)[0].ActivityIDs[0])
}

func TestImportSelectsCloneActivities(t *testing.T) {
	d := newTestDraft()

	imported := d.Import([]Record{rec(3, "2024-01-03", 30, 31)})

	require.Len(t, imported, 1)
	assert.ElementsMatch(t, []int64{30, 31}, d.SelectedActivities(Mercredi, imported[0].ID))
}

func TestImportDeduplicatesCloneActivities(t *testing.T) {
	d := newTestDraft()

	imported := d.Import([]Record{rec(3, "2024-01-03", 30, 30, 31)})

	require.Len(t, imported, 1)
	assert.Equal(t, []int64{30, 31}, imported[0].ActivityIDs)
}
