package planning

import (
	"errors"
	"fmt"
	"regexp"
	"sync/atomic"
	"time"
)

// DateLayout is the wire format for planning dates.
const DateLayout = "2006-01-02"

// timePattern accepts strict 24-hour wall-clock times ("08:30", "23:05").
var timePattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// RecordID is the identity of a planning record. Positive ids are assigned by
// the backend; negative ids mark records that only exist in the local draft.
// A negative id must never be sent to an association endpoint.
type RecordID int64

// IsLocal reports whether the record has not been persisted yet.
func (id RecordID) IsLocal() bool {
	return id < 0
}

var (
	localIDBase = time.Now().UnixNano()
	localIDSeq  atomic.Int64
)

// NewLocalID returns a fresh negative id, unique within the process. The
// timestamp base keeps ids from different sessions apart; the sequence keeps
// rapid successive imports from colliding.
func NewLocalID() RecordID {
	return RecordID(-(localIDBase + localIDSeq.Add(1)))
}

// Record is the unit being scheduled on the weekly planning.
type Record struct {
	ID              RecordID `json:"id"`
	ProjectID       string   `json:"projectId"`
	LocationID      *string  `json:"locationId,omitempty"`
	SubcontractorID *string  `json:"defaultSubcontractorId,omitempty"`
	SignageID       *string  `json:"signageId,omitempty"`
	StartTime       string   `json:"startTime"`
	EndTime         string   `json:"endTime"`
	Note            string   `json:"note,omitempty"`
	LabRequired     bool     `json:"isLabRequired"`
	LabQuantity     float64  `json:"labQuantity"`
	Date            string   `json:"date"`
	ActivityIDs     []int64  `json:"activityIds"`
}

// DateValue parses the record's calendar date.
func (r *Record) DateValue() (time.Time, error) {
	return time.Parse(DateLayout, dateOnly(r.Date))
}

// Validate checks the UI-level preconditions before a record may be saved.
func (r *Record) Validate() error {
	if r.StartTime != "" && !timePattern.MatchString(r.StartTime) {
		return fmt.Errorf("invalid start time %q, expected HH:MM", r.StartTime)
	}
	if r.EndTime != "" && !timePattern.MatchString(r.EndTime) {
		return fmt.Errorf("invalid end time %q, expected HH:MM", r.EndTime)
	}
	if r.LabRequired && r.LabQuantity < 0 {
		return errors.New("lab quantity must be non-negative when lab is required")
	}
	if _, err := r.DateValue(); err != nil {
		return fmt.Errorf("invalid date %q: %w", r.Date, err)
	}
	if len(r.ActivityIDs) == 0 {
		return errors.New("record has no activities")
	}
	return nil
}

// Clone returns a deep copy; the activity list is never shared between copies.
func (r Record) Clone() Record {
	c := r
	c.ActivityIDs = append([]int64(nil), r.ActivityIDs...)
	if r.LocationID != nil {
		v := *r.LocationID
		c.LocationID = &v
	}
	if r.SubcontractorID != nil {
		v := *r.SubcontractorID
		c.SubcontractorID = &v
	}
	if r.SignageID != nil {
		v := *r.SignageID
		c.SignageID = &v
	}
	return c
}

// SharesActivity reports whether two records reference at least one common
// activity. Used for duplicate suppression on import.
func (r *Record) SharesActivity(other *Record) bool {
	for _, a := range r.ActivityIDs {
		for _, b := range other.ActivityIDs {
			if a == b {
				return true
			}
		}
	}
	return false
}

// NormalizeActivities deduplicates the activity list preserving first-seen order.
func (r *Record) NormalizeActivities() {
	seen := make(map[int64]bool, len(r.ActivityIDs))
	out := r.ActivityIDs[:0]
	for _, id := range r.ActivityIDs {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	r.ActivityIDs = out
}

// dateOnly strips any time component so "2024-01-10T08:00:00" and
// "2024-01-10" compare equal.
func dateOnly(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}
