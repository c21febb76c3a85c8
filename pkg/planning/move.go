package planning

// Move takes the record at (src, srcIdx) out of its bucket, rewrites its date
// to the destination day of the same week, and inserts it at dstIdx in the
// destination bucket, shifting the records behind it. Persistence is deferred
// to the next save; the draft only turns dirty.
//
// An out-of-range source or an invalid destination aborts the move and leaves
// the local tree untouched.
func (d *Draft) Move(src Day, srcIdx int, dst Day, dstIdx int) bool {
	if !dst.Valid() {
		d.logf("planning: drag target %d does not resolve to a day, move aborted", dst)
		return false
	}
	if !src.Valid() {
		d.logf("planning: drag source %d does not resolve to a day, move aborted", src)
		return false
	}
	srcBucket := d.local[src]
	if srcIdx < 0 || srcIdx >= len(srcBucket) {
		d.logf("planning: drag source index %d out of range for %s", srcIdx, src)
		return false
	}

	rec := srcBucket[srcIdx]
	d.local[src] = append(srcBucket[:srcIdx:srcIdx], srcBucket[srcIdx+1:]...)

	rec.Date = d.week.Start.AddDate(0, 0, dst.Offset()).Format(DateLayout)

	dstBucket := d.local[dst]
	if dstIdx < 0 {
		dstIdx = 0
	}
	if dstIdx > len(dstBucket) {
		dstIdx = len(dstBucket)
	}
	dstBucket = append(dstBucket, Record{})
	copy(dstBucket[dstIdx+1:], dstBucket[dstIdx:])
	dstBucket[dstIdx] = rec
	d.local[dst] = dstBucket

	if src != dst {
		oldKey := selectionKey(src, rec.ID)
		if set, ok := d.selected[oldKey]; ok {
			delete(d.selected, oldKey)
			d.selected[selectionKey(dst, rec.ID)] = set
		}
	}

	d.dirty = true
	return true
}

// MoveNamed resolves drop-target bucket names before moving. A name that does
// not resolve to a day leaves the draft unchanged, matching the defensive
// check on drop targets. A drag with no destination is a cancelled drag and
// must simply be ignored by the caller.
func (d *Draft) MoveNamed(srcName string, srcIdx int, dstName string, dstIdx int) bool {
	dst, ok := ParseDay(dstName)
	if !ok {
		d.logf("planning: drop target %q is not a valid day bucket, move aborted", dstName)
		return false
	}
	src, ok := ParseDay(srcName)
	if !ok {
		d.logf("planning: drag source %q is not a valid day bucket, move aborted", srcName)
		return false
	}
	return d.Move(src, srcIdx, dst, dstIdx)
}
