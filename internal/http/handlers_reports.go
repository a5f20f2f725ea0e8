package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/espandar/bi-portal/internal/data"
	apperrors "github.com/espandar/bi-portal/internal/errors"
)

// CatalogReader is the report catalog surface consumed by the report
// endpoints.
type CatalogReader interface {
	ListAllowed(ctx context.Context, allowedIDs []string) ([]data.Report, error)
}

// ReportHandlers serves the permission-filtered report catalog. These run
// behind RequireAuth, so verified claims are always present in context.
type ReportHandlers struct {
	Svc     AuthServiceInterface
	Catalog CatalogReader
	Logger  *slog.Logger
}

func (h *ReportHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// AllowedIDs handles GET /api/reports/allowed: the caller's allowed report
// ids, from the token claim when present, recomputed otherwise.
func (h *ReportHandlers) AllowedIDs(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"allowedReportIds": orEmpty(h.Svc.AllowedReports(claims)),
	})
}

// checkPermissionRequest is the single-report permission check body.
type checkPermissionRequest struct {
	ReportID string `json:"reportId"`
}

// CheckPermission handles POST /api/reports/check-permission: whether the
// caller may open one report. Membership in the caller's allowed set is the
// only criterion; unknown ids are denied.
func (h *ReportHandlers) CheckPermission(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req checkPermissionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ReportID == "" {
		WriteAppError(w, apperrors.Validation("reportId is required"))
		return
	}

	allowed := allowedSet(h.Svc.AllowedReports(claims))
	_, has := allowed[req.ReportID]
	WriteJSON(w, http.StatusOK, map[string]any{
		"reportId":      req.ReportID,
		"hasPermission": has,
	})
}

// checkPermissionsRequest is the batch permission check body.
type checkPermissionsRequest struct {
	ReportIDs []string `json:"reportIds"`
}

// CheckPermissions handles POST /api/reports/check-permissions: the batch
// form of CheckPermission, one verdict per requested id in request order.
func (h *ReportHandlers) CheckPermissions(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	var req checkPermissionsRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.ReportIDs == nil {
		WriteAppError(w, apperrors.Validation("reportIds array is required"))
		return
	}

	allowed := allowedSet(h.Svc.AllowedReports(claims))
	verdicts := make([]map[string]any, 0, len(req.ReportIDs))
	for _, id := range req.ReportIDs {
		_, has := allowed[id]
		verdicts = append(verdicts, map[string]any{
			"reportId":      id,
			"hasPermission": has,
		})
	}
	WriteJSON(w, http.StatusOK, map[string]any{"permissions": verdicts})
}

func allowedSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// List handles GET /api/reports: the catalog filtered to what the caller
// may open. Unknown or unresolvable permissions yield an empty list, never
// the full catalog.
func (h *ReportHandlers) List(w http.ResponseWriter, r *http.Request) {
	claims, ok := GetClaimsFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthorized("authentication required"))
		return
	}

	allowed := h.Svc.AllowedReports(claims)
	reports, err := h.Catalog.ListAllowed(r.Context(), allowed)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "catalog read failed", slog.String("error", err.Error()))
		WriteAppError(w, apperrors.Internal("could not read report catalog", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"reports": reports})
}
