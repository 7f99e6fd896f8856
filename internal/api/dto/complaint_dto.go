package dto

import (
	"time"

	"github.com/nagardrishti/complaint-service/internal/domain"
)

// DetectResponse is returned by POST /detect-category.
type DetectResponse struct {
	SuggestedID *int   `json:"suggested_id"`
	Name        string `json:"name"`
}

// ComplaintResponse is the admin JSON view of a complaint.
type ComplaintResponse struct {
	ID               int64                  `json:"id"`
	UserID           int64                  `json:"user_id"`
	ReporterName     string                 `json:"reporter_name"`
	MobileNumber     string                 `json:"mobile_number"`
	CategoryID       int                    `json:"category_id"`
	CategoryName     string                 `json:"category_name"`
	Latitude         float64                `json:"latitude"`
	Longitude        float64                `json:"longitude"`
	Address          string                 `json:"address"`
	Landmark         *string                `json:"landmark"`
	ImageURL         string                 `json:"image_url"`
	Description      *string                `json:"description"`
	RegistryTicketID *string                `json:"registry_ticket_id"`
	Status           domain.ComplaintStatus `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	History          []HistoryEntry         `json:"history,omitempty"`
}

// HistoryEntry is one status transition.
type HistoryEntry struct {
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Note      string                 `json:"note"`
	CreatedAt time.Time              `json:"created_at"`
}
