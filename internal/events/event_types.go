package events

import (
	"time"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered      EventType = "user_registered"
	EventComplaintSubmitted  EventType = "complaint_submitted"
	EventComplaintFlagged    EventType = "complaint_flagged"
	EventComplaintSynced     EventType = "complaint_synced"
	EventComplaintSyncFailed EventType = "complaint_sync_failed"
	EventComplaintResolved   EventType = "complaint_resolved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	UserID      int64     `json:"user_id,omitempty"`
	ComplaintID int64     `json:"complaint_id,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Payload     any       `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	MobileNumber   string `json:"mobile_number"`
	RegistryUserID *int64 `json:"registry_user_id,omitempty"`
	RegistryError  string `json:"registry_error,omitempty"`
}

// ComplaintSubmittedPayload payload.
type ComplaintSubmittedPayload struct {
	CategoryID int                    `json:"category_id"`
	Status     domain.ComplaintStatus `json:"status"`
	Address    string                 `json:"address"`
}

// ComplaintFlaggedPayload payload.
type ComplaintFlaggedPayload struct {
	SubmittedCategoryID int    `json:"submitted_category_id"`
	DetectedCategoryID  int    `json:"detected_category_id"`
	DetectedLabel       string `json:"detected_label"`
}

// ComplaintSyncPayload payload for sync success and failure.
type ComplaintSyncPayload struct {
	TicketID string                 `json:"ticket_id,omitempty"`
	Status   domain.ComplaintStatus `json:"status"`
	Reason   string                 `json:"reason,omitempty"`
}

// ComplaintStatusChangedPayload payload.
type ComplaintStatusChangedPayload struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      string                 `json:"note,omitempty"`
}
