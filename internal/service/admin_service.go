package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nagardrishti/complaint-service/internal/category"
	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/events"
	"github.com/nagardrishti/complaint-service/internal/repository"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

const exportSheet = "Complaints"

var resolvableStatuses = map[domain.ComplaintStatus]bool{
	domain.ComplaintStatusPendingSync:   true,
	domain.ComplaintStatusSynced:        true,
	domain.ComplaintStatusFlaggedSynced: true,
	domain.ComplaintStatusFailed:        true,
}

// AdminService backs the administrator pages.
type AdminService struct {
	users      repository.UserRepository
	complaints repository.ComplaintRepository
	history    repository.ComplaintHistoryRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// AdminDependencies bundles collaborators for AdminService.
type AdminDependencies struct {
	UserRepo      repository.UserRepository
	ComplaintRepo repository.ComplaintRepository
	HistoryRepo   repository.ComplaintHistoryRepository
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// ComplaintView joins a complaint with its category name and reporter.
type ComplaintView struct {
	domain.Complaint
	CategoryName string
	ReporterName string
	Mobile       string
}

// Dashboard is everything the admin page lists.
type Dashboard struct {
	Users        []domain.User
	Complaints   []ComplaintView
	StatusCounts map[domain.ComplaintStatus]int
}

// ComplaintDetail is a complaint with its status history.
type ComplaintDetail struct {
	ComplaintView
	History []domain.ComplaintHistory
}

// NewAdminService constructs the service.
func NewAdminService(deps AdminDependencies) *AdminService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:      deps.UserRepo,
		complaints: deps.ComplaintRepo,
		history:    deps.HistoryRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// Dashboard loads all users and all complaints, newest complaint first.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		users      []domain.User
		complaints []domain.Complaint
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = s.users.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		complaints, err = s.complaints.ListRecent(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load dashboard: %w", err)
	}

	byID := make(map[int64]domain.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	dash := &Dashboard{
		Users:        users,
		Complaints:   make([]ComplaintView, 0, len(complaints)),
		StatusCounts: make(map[domain.ComplaintStatus]int),
	}
	for _, c := range complaints {
		dash.Complaints = append(dash.Complaints, newComplaintView(c, byID[c.UserID]))
		dash.StatusCounts[c.Status]++
	}
	return dash, nil
}

// Complaint returns one complaint with its history.
func (s *AdminService) Complaint(ctx context.Context, id int64) (*ComplaintDetail, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.GetByID(ctx, complaint.UserID)
	if err != nil {
		return nil, fmt.Errorf("load reporter: %w", err)
	}
	history, err := s.history.ListByComplaint(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return &ComplaintDetail{ComplaintView: newComplaintView(*complaint, *owner), History: history}, nil
}

// Resolve marks a complaint resolved and records who did it.
func (s *AdminService) Resolve(ctx context.Context, id int64, actor, note string) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !resolvableStatuses[complaint.Status] {
		return nil, apperrors.NewConflict("complaint cannot be resolved", map[string]any{
			"id":     id,
			"status": complaint.Status,
		})
	}

	oldStatus := complaint.Status
	if err := s.complaints.UpdateStatus(ctx, id, domain.ComplaintStatusResolved); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	complaint.Status = domain.ComplaintStatusResolved

	note = strings.TrimSpace(note)
	entryNote := "resolved by " + actor
	if note != "" {
		entryNote += ": " + note
	}
	entry := &domain.ComplaintHistory{
		ComplaintID: id,
		OldStatus:   oldStatus,
		NewStatus:   complaint.Status,
		Note:        entryNote,
	}
	if err := s.history.Create(ctx, entry); err != nil {
		s.logger.Error("record complaint history failed", zap.Int64("complaint_id", id), zap.Error(err))
	}

	publishEvent(ctx, s.dispatcher, events.Event{
		Type:        events.EventComplaintResolved,
		UserID:      complaint.UserID,
		ComplaintID: id,
		Payload: events.ComplaintStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: complaint.Status,
			Note:      note,
		},
	})
	return complaint, nil
}

var exportHeaders = []string{
	"ID", "Created", "Status", "Category", "Reporter", "Mobile",
	"Address", "Landmark", "Latitude", "Longitude", "Description", "Ticket", "Image",
}

// ExportXLSX renders every complaint as a spreadsheet.
func (s *AdminService) ExportXLSX(ctx context.Context) ([]byte, error) {
	dash, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("close workbook failed", zap.Error(err))
		}
	}()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeaders))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, c := range dash.Complaints {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			c.ID,
			c.CreatedAt.Format("2006-01-02 15:04"),
			string(c.Status),
			c.CategoryName,
			c.ReporterName,
			c.Mobile,
			c.Address,
			deref(c.Landmark),
			c.Latitude,
			c.Longitude,
			deref(c.Description),
			deref(c.RegistryTicketID),
			c.ImageURL,
		}
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newComplaintView(c domain.Complaint, owner domain.User) ComplaintView {
	return ComplaintView{
		Complaint:    c,
		CategoryName: category.Name(c.CategoryID),
		ReporterName: owner.FullName,
		Mobile:       owner.MobileNumber,
	}
}
