package domain

import "time"

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	ComplaintStatusPendingSync   ComplaintStatus = "Pending Sync"
	ComplaintStatusSynced        ComplaintStatus = "Synced"
	ComplaintStatusFlaggedSynced ComplaintStatus = "Flagged / Synced"
	ComplaintStatusFailed        ComplaintStatus = "Failed"
	ComplaintStatusResolved      ComplaintStatus = "Resolved"
)

// Complaint is a single sanitation report with its photo and location.
type Complaint struct {
	ID               int64
	UserID           int64
	CategoryID       int
	Latitude         float64
	Longitude        float64
	Address          string
	Landmark         *string
	ImageURL         string
	Description      *string
	RegistryTicketID *string
	Status           ComplaintStatus
	CreatedAt        time.Time
}
