package account

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"hostelsaathi/internal/apperr"
	"hostelsaathi/internal/config"
	"hostelsaathi/pkg/response"
)

type AccountHandler struct {
	service *AccountService
	uploads *config.UploadService
	logger  *zap.Logger
}

func NewAccountHandler(service *AccountService, uploads *config.UploadService, logger *zap.Logger) *AccountHandler {
	return &AccountHandler{service: service, uploads: uploads, logger: logger}
}

func (h *AccountHandler) RegisterStudent(c echo.Context) error {
	var req RegisterStudentRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	avatarURL, err := h.uploadAvatar(c)
	if err != nil {
		return response.Fail(c, err)
	}

	account, err := h.service.RegisterStudent(c.Request().Context(), req, avatarURL)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusCreated, account, "User registered successfully")
}

func (h *AccountHandler) RegisterAdmin(c echo.Context) error {
	var req RegisterAdminRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	avatarURL, err := h.uploadAvatar(c)
	if err != nil {
		return response.Fail(c, err)
	}

	account, err := h.service.RegisterAdmin(c.Request().Context(), req, avatarURL)
	if err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusCreated, account, "User registered successfully")
}

// uploadAvatar pushes an optional multipart avatar to the blob host and
// returns its URL. Registration without an avatar is fine.
func (h *AccountHandler) uploadAvatar(c echo.Context) (string, error) {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return "", nil
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", apperr.BadRequest("Avatar file could not be read")
	}
	defer file.Close()

	url, err := h.uploads.Upload(c.Request().Context(), fileHeader.Filename, file)
	if err != nil {
		h.logger.Error("avatar upload failed", zap.Error(err))
		return "", apperr.Internal("Failed to upload avatar")
	}
	return url, nil
}

func (h *AccountHandler) LoginStudent(c echo.Context) error {
	var req StudentLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	account, pair, err := h.service.LoginStudent(c.Request().Context(), req)
	if err != nil {
		return response.Fail(c, err)
	}
	setAuthCookies(c, pair)
	return response.OK(c, http.StatusOK, echo.Map{
		"user":         account,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "User logged in successfully")
}

func (h *AccountHandler) LoginAdmin(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	account, pair, err := h.service.LoginAdmin(c.Request().Context(), req)
	if err != nil {
		return response.Fail(c, err)
	}
	setAuthCookies(c, pair)
	return response.OK(c, http.StatusOK, echo.Map{
		"user":         account,
		"accessToken":  pair.AccessToken,
		"refreshToken": pair.RefreshToken,
	}, "Admin logged in successfully")
}

func (h *AccountHandler) Logout(c echo.Context) error {
	account, ok := FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}

	if err := h.service.Logout(c.Request().Context(), account.ID); err != nil {
		return response.Fail(c, err)
	}
	clearAuthCookies(c)
	return response.OK(c, http.StatusOK, echo.Map{}, "User logged out")
}

func (h *AccountHandler) RefreshToken(c echo.Context) error {
	presented := ""
	if cookie, err := c.Cookie("refreshToken"); err == nil {
		presented = cookie.Value
	}
	if presented == "" {
		var req RefreshTokenRequest
		if err := c.Bind(&req); err == nil {
			presented = req.RefreshToken
		}
	}

	pair, err := h.service.Refresh(c.Request().Context(), presented)
	if err != nil {
		return response.Fail(c, err)
	}
	setAuthCookies(c, pair)
	return response.OK(c, http.StatusOK, pair, "Access token refreshed")
}

func (h *AccountHandler) ChangePassword(c echo.Context) error {
	account, ok := FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return response.Fail(c, apperr.BadRequest("Invalid request"))
	}

	if err := h.service.ChangePassword(c.Request().Context(), account.ID, req); err != nil {
		return response.Fail(c, err)
	}
	return response.OK(c, http.StatusOK, echo.Map{}, "Password changed successfully")
}

func (h *AccountHandler) CurrentUser(c echo.Context) error {
	account, ok := FromContext(c)
	if !ok {
		return response.Fail(c, apperr.Unauthorized("Invalid access token"))
	}
	return response.OK(c, http.StatusOK, account, "User fetched successfully")
}

func (h *AccountHandler) GetAllAdmins(c echo.Context) error {
	page := queryInt(c, "pageNumber", 1)
	pageSize := queryInt(c, "pageSize", 5)

	admins, totalItems, err := h.service.ListAdmins(c.Request().Context(), page, pageSize)
	if err != nil {
		return response.Fail(c, err)
	}
	totalPages := (totalItems + int64(pageSize) - 1) / int64(pageSize)
	return response.OK(c, http.StatusOK, echo.Map{
		"totalItems":  totalItems,
		"totalPages":  totalPages,
		"currentPage": page,
		"ref":         admins,
	}, "Admins fetched successfully")
}

func queryInt(c echo.Context, name string, fallback int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		return fallback
	}
	return value
}

func setAuthCookies(c echo.Context, pair *TokenPair) {
	c.SetCookie(&http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	c.SetCookie(&http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
}

func clearAuthCookies(c echo.Context) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   true,
		})
	}
}
