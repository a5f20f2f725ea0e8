package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/espandar/bi-portal/internal/domain/auth"
	apperrors "github.com/espandar/bi-portal/internal/errors"
	"github.com/espandar/bi-portal/internal/service"
)

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Login(ctx context.Context, in service.LoginInput) (*service.LoginResult, error)
	VerifyToken(token string) *domainauth.Claims
	AllowedReports(claims *domainauth.Claims) []string
}

// AdminStore is the allow-list repository consumed by the admin endpoints.
type AdminStore interface {
	List(ctx context.Context) ([]string, error)
	IsAdmin(ctx context.Context, identifiers []string) (bool, error)
	Add(ctx context.Context, username string) error
	Remove(ctx context.Context, username string) error
}

// AuthHandlers provides HTTP handlers for authentication operations.
type AuthHandlers struct {
	Svc    AuthServiceInterface
	Admins AdminStore
	Logger *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// loginRequest is the login endpoint's body shape.
type loginRequest struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	CaptchaToken string `json:"captchaToken,omitempty"`
}

// userPayload is the public identity surface returned to callers. Nothing
// beyond display name, email, and groups ever leaves the gateway.
type userPayload struct {
	Username    string   `json:"username"`
	DisplayName string   `json:"displayName"`
	Email       string   `json:"email"`
	Groups      []string `json:"groups"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	result, err := h.Svc.Login(r.Context(), service.LoginInput{
		Username:     req.Username,
		Password:     req.Password,
		CaptchaToken: req.CaptchaToken,
		ClientAddr:   ClientAddr(r),
	})
	if err != nil {
		h.writeLoginFailure(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"token":   result.Token,
		"user": userPayload{
			Username:    result.Identity.CanonicalID,
			DisplayName: result.Identity.DisplayName,
			Email:       result.Identity.Email,
			Groups:      orEmpty(result.Identity.Groups),
		},
		"allowedReportIds": orEmpty(result.AllowedReportIDs),
	})
}

// writeLoginFailure renders the failure contract: a generic message, the
// taxonomy code, and the captcha-required flag when the attempt tracker
// demands one.
func (h *AuthHandlers) writeLoginFailure(w http.ResponseWriter, err error) {
	body := map[string]any{"success": false}

	var denied *service.LoginDenied
	if errors.As(err, &denied) {
		code := apperrors.CodeOf(denied.Err)
		body["error"] = publicLoginMessage(code)
		if denied.CaptchaRequired {
			body["captchaRequired"] = true
		}
		WriteJSON(w, statusForCode(code), body)
		return
	}

	body["error"] = publicLoginMessage(apperrors.ErrCodeInternal)
	WriteJSON(w, http.StatusInternalServerError, body)
}

// publicLoginMessage keeps caller-visible failure text deliberately generic.
func publicLoginMessage(code apperrors.ErrorCode) string {
	switch code {
	case apperrors.ErrCodeValidation:
		return "Username and password are required"
	case apperrors.ErrCodeCaptchaRequired:
		return "Captcha verification required"
	case apperrors.ErrCodeInvalidCredentials:
		return "Invalid credentials. Please check your username and password."
	default:
		return "Internal server error. Please try again later."
	}
}

// Verify handles POST /api/auth/verify: bearer token in, claims out.
func (h *AuthHandlers) Verify(w http.ResponseWriter, r *http.Request) {
	claims := h.Svc.VerifyToken(BearerToken(r))
	if claims == nil {
		WriteJSON(w, http.StatusUnauthorized, map[string]any{"valid": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"valid": true,
		"user": userPayload{
			Username:    claims.SubjectID,
			DisplayName: claims.DisplayName,
			Email:       claims.Email,
			Groups:      orEmpty(claims.Groups),
		},
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless tokens, so
// logout is client-side discard; the endpoint exists so clients have a
// uniform call to make.
func (h *AuthHandlers) Logout(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Logged out successfully",
	})
}

// ListAdmins handles GET /api/auth/admins.
func (h *AuthHandlers) ListAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.Admins.List(r.Context())
	if err != nil {
		h.logger().ErrorContext(r.Context(), "list admins failed", slog.String("error", err.Error()))
		WriteAppError(w, apperrors.Internal("could not read admins list", err))
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"admins": admins})
}

// adminRequest is the add-admin body shape.
type adminRequest struct {
	Username string `json:"username"`
}

// AddAdmin handles POST /api/auth/admins.
func (h *AuthHandlers) AddAdmin(w http.ResponseWriter, r *http.Request) {
	var req adminRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	if err := h.Admins.Add(r.Context(), req.Username); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]any{"message": "Admin added successfully"})
}

// RemoveAdmin handles DELETE /api/auth/admins/{username}.
func (h *AuthHandlers) RemoveAdmin(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")
	if err := h.Admins.Remove(r.Context(), username); err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"message": "Admin removed successfully"})
}

// AdminOnly wraps a handler so only allow-listed admins reach it.
func (h *AuthHandlers) AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims := h.Svc.VerifyToken(BearerToken(r))
		if claims == nil {
			WriteAppError(w, apperrors.Unauthorized("authentication required"))
			return
		}

		ok, err := h.Admins.IsAdmin(r.Context(), claims.Identifiers())
		if err != nil {
			h.logger().ErrorContext(r.Context(), "admin check failed", slog.String("error", err.Error()))
			WriteAppError(w, apperrors.Internal("could not verify admin access", err))
			return
		}
		if !ok {
			WriteAppError(w, apperrors.Forbidden("admin access required"))
			return
		}

		next(w, r.WithContext(SetClaimsInContext(r.Context(), claims)))
	}
}

// orEmpty keeps JSON arrays as [] instead of null.
func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
