package handlers

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/nagardrishti/complaint-service/internal/api/dto"
	"github.com/nagardrishti/complaint-service/internal/auth"
	"github.com/nagardrishti/complaint-service/internal/domain"
	"github.com/nagardrishti/complaint-service/internal/service"
	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// AdminBackend is what the admin pages read and change.
type AdminBackend interface {
	Dashboard(ctx context.Context) (*service.Dashboard, error)
	Complaint(ctx context.Context, id int64) (*service.ComplaintDetail, error)
	Resolve(ctx context.Context, id int64, actor, note string) (*domain.Complaint, error)
	ExportXLSX(ctx context.Context) ([]byte, error)
}

// AdminAuthenticator checks admin credentials.
type AdminAuthenticator interface {
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}

// AdminHandler serves /admin.
type AdminHandler struct {
	admin         AdminBackend
	auth          AdminAuthenticator
	authEnabled   bool
	secureCookies bool
	logger        *zap.Logger
}

// AdminHandlerConfig bundles handler dependencies.
type AdminHandlerConfig struct {
	Admin         AdminBackend
	Auth          AdminAuthenticator
	AuthEnabled   bool
	SecureCookies bool
	Logger        *zap.Logger
}

// NewAdminHandler constructs handler.
func NewAdminHandler(cfg AdminHandlerConfig) *AdminHandler {
	return &AdminHandler{
		admin:         cfg.Admin,
		auth:          cfg.Auth,
		authEnabled:   cfg.AuthEnabled,
		secureCookies: cfg.SecureCookies,
		logger:        cfg.Logger,
	}
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	dash, err := h.admin.Dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return c.Render("admin", fiber.Map{
		"Message":      c.Query("msg"),
		"Users":        dash.Users,
		"Complaints":   dash.Complaints,
		"StatusCounts": dash.StatusCounts,
		"AuthEnabled":  h.authEnabled,
	}, Layout)
}

// LoginPage handles GET /admin/login.
func (h *AdminHandler) LoginPage(c *fiber.Ctx) error {
	if !h.authEnabled {
		return c.Redirect("/admin", fiber.StatusSeeOther)
	}
	return c.Render("admin_login", fiber.Map{"Message": c.Query("msg")}, Layout)
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var form dto.AdminLoginForm
	if err := c.BodyParser(&form); err != nil {
		return redirectWithMessage(c, "/admin/login", msgInvalidForm)
	}
	token, exp, err := h.auth.Login(c.UserContext(), form.Username, form.Password)
	if err != nil {
		if de := apperrors.ToDomainError(err); de.HTTPStatus >= fiber.StatusInternalServerError {
			h.logger.Error("admin login failed", zap.Error(err))
		}
		return redirectWithMessage(c, "/admin/login", "Error: invalid username or password")
	}

	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  exp,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/admin", fiber.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return c.Redirect("/admin/login", fiber.StatusSeeOther)
}

// Complaint handles GET /admin/complaints/:id.
func (h *AdminHandler) Complaint(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	detail, err := h.admin.Complaint(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": complaintResponse(detail)})
}

// Resolve handles POST /admin/complaints/:id/resolve. Form posts from the
// dashboard are redirected back to it; other callers get JSON.
func (h *AdminHandler) Resolve(c *fiber.Ctx) error {
	id, err := complaintID(c)
	if err != nil {
		return err
	}
	var req dto.ResolveRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	actor := auth.RoleAdmin
	if principal, ok := auth.PrincipalFromContext(c); ok {
		actor = principal.Username
	}

	complaint, err := h.admin.Resolve(c.UserContext(), id, actor, req.Note)
	if !wantsHTML(c) {
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"data": fiber.Map{"id": complaint.ID, "status": complaint.Status}})
	}
	if err != nil {
		de := apperrors.ToDomainError(err)
		if de.HTTPStatus >= fiber.StatusInternalServerError {
			h.logger.Error("resolve complaint failed", zap.Int64("complaint_id", id), zap.Error(err))
		}
		return redirectWithMessage(c, "/admin", "Error: "+de.Message)
	}
	return redirectWithMessage(c, "/admin", fmt.Sprintf("Complaint #%d resolved", id))
}

// Export handles GET /admin/export.xlsx.
func (h *AdminHandler) Export(c *fiber.Ctx) error {
	data, err := h.admin.ExportXLSX(c.UserContext())
	if err != nil {
		return err
	}
	c.Attachment(fmt.Sprintf("complaints-%s.xlsx", time.Now().Format("20060102")))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	return c.Send(data)
}

func complaintID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid complaint id", map[string]any{"field": "id"})
	}
	return int64(id), nil
}

func complaintResponse(detail *service.ComplaintDetail) dto.ComplaintResponse {
	resp := dto.ComplaintResponse{
		ID:               detail.ID,
		UserID:           detail.UserID,
		ReporterName:     detail.ReporterName,
		MobileNumber:     detail.Mobile,
		CategoryID:       detail.CategoryID,
		CategoryName:     detail.CategoryName,
		Latitude:         detail.Latitude,
		Longitude:        detail.Longitude,
		Address:          detail.Address,
		Landmark:         detail.Landmark,
		ImageURL:         detail.ImageURL,
		Description:      detail.Description,
		RegistryTicketID: detail.RegistryTicketID,
		Status:           detail.Status,
		CreatedAt:        detail.CreatedAt,
	}
	for _, h := range detail.History {
		resp.History = append(resp.History, dto.HistoryEntry{
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			Note:      h.Note,
			CreatedAt: h.CreatedAt,
		})
	}
	return resp
}
