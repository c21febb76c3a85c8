package planning

// Import clones records from other weeks into the current one. Each source
// keeps its original day of week but is re-dated into this week, gets a fresh
// local id, and is appended to its destination bucket. A source sharing at
// least one activity with a record already present in the destination bucket
// (including clones appended earlier in the same batch) is treated as already
// represented and skipped silently.
//
// Sources are processed independently; one skip never blocks the rest. The
// imported clones are returned and the draft turns dirty if anything landed.
func (d *Draft) Import(sources []Record) []Record {
	imported := []Record{}
	for i := range sources {
		src := sources[i]
		date, err := src.DateValue()
		if err != nil {
			d.logf("planning: import candidate %d has unparsable date %q, skipping", src.ID, src.Date)
			continue
		}

		day := DayForDate(date)
		newDate := d.week.Start.AddDate(0, 0, day.Offset()).Format(DateLayout)

		if dup := d.findDuplicate(day, &src); dup != nil {
			d.logf("planning: import candidate %d shares an activity with record %d on %s, skipping",
				src.ID, dup.ID, day)
			continue
		}

		clone := src.Clone()
		clone.ID = NewLocalID()
		clone.Date = newDate
		clone.NormalizeActivities()
		d.local[day] = append(d.local[day], clone)
		d.SelectActivities(day, clone.ID, clone.ActivityIDs)
		imported = append(imported, clone.Clone())
	}
	if len(imported) > 0 {
		d.dirty = true
	}
	return imported
}

// findDuplicate scans the destination bucket in its post-import state for a
// record sharing at least one activity with the candidate.
func (d *Draft) findDuplicate(day Day, candidate *Record) *Record {
	bucket := d.local[day]
	for i := range bucket {
		if bucket[i].SharesActivity(candidate) {
			return &bucket[i]
		}
	}
	return nil
}
