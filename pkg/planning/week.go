package planning

import (
	"log"
	"time"
)

// Week is the derived view of seven day buckets around a reference date.
// Start is the most recent Sunday at or before the reference date, End the
// following Saturday.
type Week struct {
	Start   time.Time
	End     time.Time
	Days    [7]time.Time
	Buckets map[Day][]Record
}

// WeekBounds computes the Sunday..Saturday bounds containing ref.
func WeekBounds(ref time.Time) (start, end time.Time) {
	d := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	start = d.AddDate(0, 0, -int(d.Weekday()))
	end = start.AddDate(0, 0, 6)
	return start, end
}

// WeekDays enumerates the seven dates of the week starting at start.
func WeekDays(start time.Time) [7]time.Time {
	var days [7]time.Time
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// DateForDay returns the calendar date of the given bucket within the week.
func (w *Week) DateForDay(d Day) time.Time {
	return w.Days[d.Offset()]
}

// Partition buckets the records of the week containing ref. Every bucket
// exists in the result, possibly empty. Records with unparsable dates are
// skipped and logged; records dated outside the week are left out.
func Partition(records []Record, ref time.Time, logger *log.Logger) *Week {
	start, end := WeekBounds(ref)
	w := &Week{
		Start:   start,
		End:     end,
		Days:    WeekDays(start),
		Buckets: make(map[Day][]Record, 7),
	}
	for _, day := range WeekOrder() {
		w.Buckets[day] = []Record{}
	}
	for _, rec := range records {
		date, err := rec.DateValue()
		if err != nil {
			if logger != nil {
				logger.Printf("planning: record %d has unparsable date %q, skipping", rec.ID, rec.Date)
			}
			continue
		}
		if date.Before(start) || date.After(end) {
			continue
		}
		day := DayForDate(date)
		w.Buckets[day] = append(w.Buckets[day], rec.Clone())
	}
	return w
}

// Records flattens the buckets back into a single list, Sunday first.
func (w *Week) Records() []Record {
	var out []Record
	for _, day := range WeekOrder() {
		out = append(out, w.Buckets[day]...)
	}
	return out
}
