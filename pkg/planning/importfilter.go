package planning

import "time"

// Importable returns the records eligible for import into the week containing
// ref: every record whose date does not fall on one of the seven displayed
// days. Comparison is on the plain YYYY-MM-DD string, any time component on
// the record date is ignored. Records with dates that are not even
// string-comparable stay importable; the merge step re-validates them.
func Importable(all []Record, ref time.Time) []Record {
	start, _ := WeekBounds(ref)
	visible := make(map[string]bool, 7)
	for _, d := range WeekDays(start) {
		visible[d.Format(DateLayout)] = true
	}
	out := []Record{}
	for _, rec := range all {
		if !visible[dateOnly(rec.Date)] {
			out = append(out, rec.Clone())
		}
	}
	return out
}
