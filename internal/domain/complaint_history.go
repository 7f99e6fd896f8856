package domain

import "time"

// ComplaintHistory is an immutable audit entry for one status transition.
type ComplaintHistory struct {
	ID          int64
	ComplaintID int64
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	Note        string
	CreatedAt   time.Time
}
