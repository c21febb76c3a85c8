package planning

import "time"

// Day identifies one of the seven week buckets. The week is Sunday-first,
// so the zero value is Dimanche and Day(n).Offset() is the distance in days
// from the week start.
type Day int

const (
	Dimanche Day = iota
	Lundi
	Mardi
	Mercredi
	Jeudi
	Vendredi
	Samedi
)

var dayNames = [7]string{"Dimanche", "Lundi", "Mardi", "Mercredi", "Jeudi", "Vendredi", "Samedi"}

func (d Day) String() string {
	if !d.Valid() {
		return "Invalide"
	}
	return dayNames[d]
}

// Offset returns the day's distance from the week start (0 = Dimanche .. 6 = Samedi).
func (d Day) Offset() int {
	return int(d)
}

// Valid reports whether d maps to a real bucket. Drop targets coming from the
// outside world must be checked before use.
func (d Day) Valid() bool {
	return d >= Dimanche && d <= Samedi
}

// ParseDay resolves a bucket name to its Day. Unknown names return ok=false
// instead of a zero Day so callers cannot mistake a typo for Dimanche.
func ParseDay(name string) (Day, bool) {
	for i, n := range dayNames {
		if n == name {
			return Day(i), true
		}
	}
	return -1, false
}

// DayForDate maps a calendar date onto its bucket. time.Weekday numbers
// Sunday as 0, which lines up with the Sunday-first week.
func DayForDate(t time.Time) Day {
	return Day(int(t.Weekday()))
}

// WeekOrder lists the buckets in display order, Sunday first.
func WeekOrder() [7]Day {
	return [7]Day{Dimanche, Lundi, Mardi, Mercredi, Jeudi, Vendredi, Samedi}
}
