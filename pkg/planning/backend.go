package planning

import "context"

// Association is one persisted record↔activity link. Associations carry their
// own id because they are deleted individually.
type Association struct {
	ID         int64 `json:"id"`
	ActivityID int64 `json:"activityId"`
}

// Backend is the external persistence collaborator. Implementations exist
// over HTTP (Client) and directly over the database on the server side; tests
// plug in fakes.
type Backend interface {
	// ListRecords returns all planning records of a project regardless of
	// week; week partitioning is the engine's job.
	ListRecords(ctx context.Context, projectID string) ([]Record, error)

	// UpsertRecord creates or updates the parent fields of a record (no
	// child associations). A zero or negative id means create. The returned
	// id must be positive.
	UpsertRecord(ctx context.Context, rec Record) (RecordID, error)

	// ListAssociations returns the persisted activity links of a record.
	ListAssociations(ctx context.Context, id RecordID) ([]Association, error)

	CreateAssociation(ctx context.Context, id RecordID, activityID int64) error
	DeleteAssociation(ctx context.Context, associationID int64) error
	DeleteRecord(ctx context.Context, id RecordID) error
}
