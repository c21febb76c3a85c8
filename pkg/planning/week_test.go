package planning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func rec(id int64, day string, activities ...int64) Record {
	return Record{
		ID:          RecordID(id),
		ProjectID:   "p1",
		Date:        day,
		ActivityIDs: activities,
	}
}

func TestWeekBoundsSundayFirst(t *testing.T) {
	tests := []struct {
		ref   string
		start string
		end   string
	}{
		{"2024-01-10", "2024-01-07", "2024-01-13"}, // Wednesday
		{"2024-01-07", "2024-01-07", "2024-01-13"}, // Sunday maps to itself
		{"2024-01-13", "2024-01-07", "2024-01-13"}, // Saturday stays in the same week
		{"2024-01-14", "2024-01-14", "2024-01-20"}, // next Sunday opens a new week
	}
	for _, tt := range tests {
		start, end := WeekBounds(date(tt.ref))
		assert.Equal(t, tt.start, start.Format(DateLayout), "ref %s", tt.ref)
		assert.Equal(t, tt.end, end.Format(DateLayout), "ref %s", tt.ref)
	}
}

func TestWeekBoundsIgnoresTimeOfDay(t *testing.T) {
	noon := time.Date(2024, 1, 10, 12, 30, 0, 0, time.UTC)
	start, end := WeekBounds(noon)
	assert.Equal(t, "2024-01-07", start.Format(DateLayout))
	assert.Equal(t, "2024-01-13", end.Format(DateLayout))
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("Mercredi")
	require.True(t, ok)
	assert.Equal(t, Mercredi, d)

	_, ok = ParseDay("mercredi")
	assert.False(t, ok, "day names are case sensitive")

	_, ok = ParseDay("Wednesday")
	assert.False(t, ok)

	_, ok = ParseDay("")
	assert.False(t, ok)
}

func TestDayForDate(t *testing.T) {
	assert.Equal(t, Dimanche, DayForDate(date("2024-01-07")))
	assert.Equal(t, Mercredi, DayForDate(date("2024-01-10")))
	assert.Equal(t, Samedi, DayForDate(date("2024-01-13")))
}

func TestPartitionAlwaysSevenBuckets(t *testing.T) {
	week := Partition(nil, date("2024-01-10"), nil)
	require.Len(t, week.Buckets, 7)
	for _, day := range WeekOrder() {
		bucket, ok := week.Buckets[day]
		require.True(t, ok, "bucket %s missing", day)
		assert.Empty(t, bucket)
	}
}

func TestPartitionBucketsByWeekday(t *testing.T) {
	records := []Record{
		rec(1, "2024-01-07", 10), // Dimanche
		rec(2, "2024-01-10", 20), // Mercredi
		rec(3, "2024-01-10", 30), // Mercredi, same bucket
		rec(4, "2024-01-13", 40), // Samedi
		rec(5, "2024-01-20", 50), // outside the week
	}
	week := Partition(records, date("2024-01-10"), nil)

	assert.Len(t, week.Buckets[Dimanche], 1)
	assert.Len(t, week.Buckets[Mercredi], 2)
	assert.Len(t, week.Buckets[Samedi], 1)
	assert.Empty(t, week.Buckets[Lundi])

	// arrival order is preserved inside a bucket
	assert.Equal(t, RecordID(2), week.Buckets[Mercredi][0].ID)
	assert.Equal(t, RecordID(3), week.Buckets[Mercredi][1].ID)
}

func TestPartitionSkipsUnparsableDates(t *testing.T) {
	records := []Record{
		rec(1, "not-a-date", 10),
		rec(2, "2024-01-10", 20),
	}
	week := Partition(records, date("2024-01-10"), nil)
	assert.Len(t, week.Records(), 1)
	assert.Equal(t, RecordID(2), week.Buckets[Mercredi][0].ID)
}

func TestPartitionAcceptsTimestampedDates(t *testing.T) {
	records := []Record{rec(1, "2024-01-10T08:00:00", 10)}
	week := Partition(records, date("2024-01-10"), nil)
	assert.Len(t, week.Buckets[Mercredi], 1)
}

func TestPartitionClonesRecords(t *testing.T) {
	records := []Record{rec(1, "2024-01-10", 10)}
	week := Partition(records, date("2024-01-10"), nil)
	week.Buckets[Mercredi][0].ActivityIDs[0] = 999
	assert.Equal(t, int64(10), records[0].ActivityIDs[0])
}

func TestImportable(t *testing.T) {
	records := []Record{
		rec(1, "2024-01-07", 10), // in week
		rec(2, "2024-01-10", 20), // in week
		rec(3, "2024-01-03", 30), // previous week
		rec(4, "2024-01-20", 40), // next week
		rec(5, "2024-01-13T17:00:00", 50), // in week, time component ignored
	}
	importable := Importable(records, date("2024-01-10"))
	require.Len(t, importable, 2)
	assert.Equal(t, RecordID(3), importable[0].ID)
	assert.Equal(t, RecordID(4), importable[1].ID)
}

func TestImportableKeepsMalformedDates(t *testing.T) {
	records := []Record{rec(1, "garbage", 10)}
	importable := Importable(records, date("2024-01-10"))
	assert.Len(t, importable, 1, "merge re-validates, the filter does not drop")
}

func TestWeekDateForDay(t *testing.T) {
	week := Partition(nil, date("2024-01-10"), nil)
	assert.Equal(t, "2024-01-07", week.DateForDay(Dimanche).Format(DateLayout))
	assert.Equal(t, "2024-01-10", week.DateForDay(Mercredi).Format(DateLayout))
	assert.Equal(t, "2024-01-13", week.DateForDay(Samedi).Format(DateLayout))
}
