package planning

import (
	"fmt"
	"log"
	"time"
)

// Draft owns the editable state of one planning week: the baseline tree as
// last saved, the local working tree, and the dirty flag gating the save
// action. All mutations of the local tree go through Draft methods; nothing
// else may write to it.
type Draft struct {
	week     *Week
	baseline map[Day][]Record
	local    map[Day][]Record
	dirty    bool
	saving   bool
	logger   *log.Logger

	// selected tracks activity selections per "<day>-<recordId>" editing
	// session. Never persisted; keys follow id rewrites on save.
	selected map[string]map[int64]bool
}

// NewDraft partitions records into the week containing ref and takes the
// result as both baseline and local tree.
func NewDraft(records []Record, ref time.Time, logger *log.Logger) *Draft {
	w := Partition(records, ref, logger)
	return &Draft{
		week:     w,
		baseline: cloneGrid(w.Buckets),
		local:    cloneGrid(w.Buckets),
		dirty:    false,
		logger:   logger,
		selected: make(map[string]map[int64]bool),
	}
}

// Week returns the bounds and day dates of the draft's week.
func (d *Draft) Week() *Week {
	return d.week
}

// Dirty reports whether the local tree differs from the last save.
func (d *Draft) Dirty() bool {
	return d.dirty
}

// Saving reports whether a save is in flight.
func (d *Draft) Saving() bool {
	return d.saving
}

// Bucket returns a copy of the local records for one day.
func (d *Draft) Bucket(day Day) []Record {
	recs := d.local[day]
	out := make([]Record, len(recs))
	for i, r := range recs {
		out[i] = r.Clone()
	}
	return out
}

// Records flattens the local tree, Sunday first.
func (d *Draft) Records() []Record {
	var out []Record
	for _, day := range WeekOrder() {
		out = append(out, d.Bucket(day)...)
	}
	return out
}

// SetRecord replaces the record at (day, idx) with rec, keeping the bucket
// derived from the record date consistent: the date of rec is forced to the
// bucket's day so storage location and date never diverge.
func (d *Draft) SetRecord(day Day, idx int, rec Record) error {
	if !day.Valid() {
		return fmt.Errorf("invalid day bucket %d", day)
	}
	bucket := d.local[day]
	if idx < 0 || idx >= len(bucket) {
		return fmt.Errorf("index %d out of range for %s", idx, day)
	}
	rec.Date = d.week.DateForDay(day).Format(DateLayout)
	rec.NormalizeActivities()
	bucket[idx] = rec.Clone()
	d.dirty = true
	return nil
}

// Add appends a new record to the bucket matching its date. Records dated
// outside the week are rejected.
func (d *Draft) Add(rec Record) error {
	date, err := rec.DateValue()
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", rec.Date, err)
	}
	if date.Before(d.week.Start) || date.After(d.week.End) {
		return fmt.Errorf("date %s outside week %s..%s", rec.Date,
			d.week.Start.Format(DateLayout), d.week.End.Format(DateLayout))
	}
	rec.NormalizeActivities()
	day := DayForDate(date)
	d.local[day] = append(d.local[day], rec.Clone())
	d.dirty = true
	return nil
}

// Remove drops the record at (day, idx) from the local tree and returns it.
// Backend deletion is the caller's concern; removal alone marks the draft dirty.
func (d *Draft) Remove(day Day, idx int) (Record, bool) {
	if !day.Valid() {
		return Record{}, false
	}
	bucket := d.local[day]
	if idx < 0 || idx >= len(bucket) {
		return Record{}, false
	}
	rec := bucket[idx]
	d.local[day] = append(bucket[:idx:idx], bucket[idx+1:]...)
	delete(d.selected, selectionKey(day, rec.ID))
	d.dirty = true
	return rec, true
}

// SelectActivities replaces the activity selection for one editing session.
func (d *Draft) SelectActivities(day Day, id RecordID, activityIDs []int64) {
	set := make(map[int64]bool, len(activityIDs))
	for _, a := range activityIDs {
		set[a] = true
	}
	d.selected[selectionKey(day, id)] = set
}

// SelectedActivities returns the tracked selection for one editing session,
// in no particular order.
func (d *Draft) SelectedActivities(day Day, id RecordID) []int64 {
	set := d.selected[selectionKey(day, id)]
	out := make([]int64, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	return out
}

func selectionKey(day Day, id RecordID) string {
	return fmt.Sprintf("%s-%d", day, id)
}

// rewriteID updates every reference to a record id after the backend assigned
// a persisted id, including the selection index keys.
func (d *Draft) rewriteID(day Day, old, now RecordID) {
	if old == now {
		return
	}
	bucket := d.local[day]
	for i := range bucket {
		if bucket[i].ID == old {
			bucket[i].ID = now
		}
	}
	oldKey := selectionKey(day, old)
	if set, ok := d.selected[oldKey]; ok {
		delete(d.selected, oldKey)
		d.selected[selectionKey(day, now)] = set
	}
}

func (d *Draft) logf(format string, args ...interface{}) {
	if d.logger != nil {
		d.logger.Printf(format, args...)
	}
}

func cloneGrid(grid map[Day][]Record) map[Day][]Record {
	out := make(map[Day][]Record, len(grid))
	for day, recs := range grid {
		copies := make([]Record, len(recs))
		for i, r := range recs {
			copies[i] = r.Clone()
		}
		out[day] = copies
	}
	return out
}
