package middleware

import (
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/casbin/casbin/v2/util"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"hostelsaathi/internal/account"
	"hostelsaathi/internal/apperr"
	"hostelsaathi/pkg/response"
)

// rbacModel is the Casbin RBAC model, kept in code so no config file has
// to travel with the binary.
const rbacModel = `[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && keyMatch(r.obj, p.obj) && r.act == p.act`

// adminPolicies lists every admin-only route. Anything not listed here
// is denied to non-admin roles by the enforcer.
var adminPolicies = [][]string{
	{"admin", "/api/v1/issue/assign-worker", "POST"},
	{"admin", "/api/v1/issue/set-priority", "POST"},
	{"admin", "/api/v1/worker*", "GET"},
	{"admin", "/api/v1/admin/all", "GET"},
}

// Auth is the request gate: Authenticate resolves a bearer/cookie access
// token to an account, AdminOnly layers the role check on top.
type Auth struct {
	tokens   *account.TokenService
	accounts account.Accounts
	enforcer *casbin.Enforcer
	logger   *zap.Logger
}

func NewAuth(tokens *account.TokenService, accounts account.Accounts, logger *zap.Logger) (*Auth, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}
	enforcer.AddFunction("keyMatch", util.KeyMatchFunc)
	if _, err := enforcer.AddPolicies(adminPolicies); err != nil {
		return nil, err
	}
	return &Auth{tokens: tokens, accounts: accounts, enforcer: enforcer, logger: logger}, nil
}

// Authenticate verifies the access token and attaches the sanitized
// account to the request context. Every failure collapses to a generic
// 401 so callers cannot probe which account ids exist.
func (a *Auth) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := extractToken(c)
		if token == "" {
			return response.Fail(c, apperr.Unauthorized("Unauthorized request"))
		}

		claims, err := a.tokens.VerifyAccess(token)
		if err != nil {
			a.logger.Debug("access token rejected", zap.Error(err))
			return response.Fail(c, apperr.Unauthorized("Invalid access token"))
		}

		id, err := primitive.ObjectIDFromHex(claims.AccountID)
		if err != nil {
			return response.Fail(c, apperr.Unauthorized("Invalid access token"))
		}

		resolved, err := a.accounts.FindByID(c.Request().Context(), id)
		if err != nil {
			a.logger.Error("account lookup failed", zap.Error(err))
			return response.Fail(c, apperr.Unauthorized("Invalid access token"))
		}
		if resolved == nil {
			return response.Fail(c, apperr.Unauthorized("Invalid access token"))
		}

		account.ToContext(c, resolved.Sanitized())
		return next(c)
	}
}

// AdminOnly enforces the admin role via Casbin for the current route.
func (a *Auth) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		actor, ok := account.FromContext(c)
		if !ok {
			return response.Fail(c, apperr.Unauthorized("Invalid access token"))
		}

		allowed, err := a.enforcer.Enforce(actor.UserRole, c.Request().URL.Path, c.Request().Method)
		if err != nil {
			a.logger.Error("casbin enforce failed", zap.Error(err))
			return response.Fail(c, apperr.Internal("RBAC system error"))
		}
		if !allowed {
			return response.Fail(c, apperr.Forbidden("Only admin can access."))
		}
		return next(c)
	}
}

// extractToken prefers the Authorization header over the accessToken
// cookie when both are present.
func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader != "" {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
