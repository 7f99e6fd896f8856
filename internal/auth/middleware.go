package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/nagardrishti/complaint-service/pkg/util"
)

// CookieName holds the admin session token.
const CookieName = "admin_token"

const principalKey = "auth_principal"

// Principal represents the authenticated administrator.
type Principal struct {
	Username string
	Role     string
}

// AdminGuard protects the admin pages when a password is configured.
type AdminGuard struct {
	tokens    *TokenManager
	enabled   bool
	loginPath string
}

// NewAdminGuard constructs middleware. A disabled guard lets every request through.
func NewAdminGuard(tokens *TokenManager, enabled bool, loginPath string) *AdminGuard {
	return &AdminGuard{tokens: tokens, enabled: enabled, loginPath: loginPath}
}

// Enabled reports whether a login is required.
func (g *AdminGuard) Enabled() bool {
	return g.enabled
}

// Handle enforces authentication for protected routes. Browsers are sent to
// the login page; other clients get a 401.
func (g *AdminGuard) Handle(c *fiber.Ctx) error {
	if !g.enabled || c.Path() == g.loginPath {
		return c.Next()
	}

	token := c.Cookies(CookieName)
	if token == "" {
		parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			token = parts[1]
		}
	}

	claims, err := g.tokens.ParseToken(token)
	if token == "" || err != nil {
		if c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMETextHTML {
			return c.Redirect(g.loginPath, fiber.StatusSeeOther)
		}
		return apperrors.NewUnauthorized("admin login required")
	}

	c.Locals(principalKey, &Principal{Username: claims.Username, Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated administrator.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
