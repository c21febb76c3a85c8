package planning

import (
	"context"
	"errors"
	"fmt"
)

// ErrSaveInFlight is returned when SaveAll is called while a previous save has
// not finished. The caller keeps the draft and may retry.
var ErrSaveInFlight = errors.New("a save is already in progress")

// SaveAll persists every record of the local tree, bucket order then list
// order. On full success the local tree becomes the new baseline and the
// dirty flag clears. On any error the remaining records are not attempted,
// the local tree is left exactly as it was, and dirty stays set so the user
// can retry without losing edits.
func (d *Draft) SaveAll(ctx context.Context, backend Backend) error {
	if d.saving {
		return ErrSaveInFlight
	}
	d.saving = true
	defer func() { d.saving = false }()

	for _, day := range WeekOrder() {
		for idx := 0; idx < len(d.local[day]); idx++ {
			if err := d.saveOne(ctx, backend, day, idx); err != nil {
				return fmt.Errorf("save %s record %d: %w", day, idx, err)
			}
		}
	}

	d.baseline = cloneGrid(d.local)
	d.dirty = false
	return nil
}

// saveOne persists the record at (day, idx): upsert the parent, rewrite a
// local id to the assigned one, then reconcile child associations against
// what the backend currently holds. Recomputing the diff against freshly
// fetched associations makes back-to-back saves idempotent.
func (d *Draft) saveOne(ctx context.Context, backend Backend, day Day, idx int) error {
	rec := d.local[day][idx]
	if err := rec.Validate(); err != nil {
		return err
	}

	id, err := backend.UpsertRecord(ctx, rec.Clone())
	if err != nil {
		return fmt.Errorf("create or update record: %w", err)
	}
	if id <= 0 {
		// Association writes need a real parent id; nothing to fall back on.
		return fmt.Errorf("backend returned no id for record %d", rec.ID)
	}
	if rec.ID != id {
		d.rewriteID(day, rec.ID, id)
		rec.ID = id
	}

	existing, err := backend.ListAssociations(ctx, id)
	if err != nil {
		return fmt.Errorf("fetch associations of record %d: %w", id, err)
	}

	wanted := make(map[int64]bool, len(rec.ActivityIDs))
	for _, a := range rec.ActivityIDs {
		wanted[a] = true
	}
	present := make(map[int64]bool, len(existing))
	for _, assoc := range existing {
		present[assoc.ActivityID] = true
	}

	// The two directions are independent calls; attempt every one and
	// surface the failures together.
	var errs []error
	for _, a := range rec.ActivityIDs {
		if !present[a] {
			if err := backend.CreateAssociation(ctx, id, a); err != nil {
				errs = append(errs, fmt.Errorf("add activity %d: %w", a, err))
			}
		}
	}
	for _, assoc := range existing {
		if !wanted[assoc.ActivityID] {
			if err := backend.DeleteAssociation(ctx, assoc.ID); err != nil {
				errs = append(errs, fmt.Errorf("remove activity %d: %w", assoc.ActivityID, err))
			}
		}
	}
	return errors.Join(errs...)
}
