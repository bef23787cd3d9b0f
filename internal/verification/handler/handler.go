// Package handler exposes the verification workflow over HTTP. User-facing
// endpoints operate on the authenticated account's own email; administrative
// review endpoints address any email and are mounted behind the admin role.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	directorymodels "comercio/internal/directory/models"
	"comercio/internal/verification/models"
	"comercio/internal/verification/service"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/httputil"
	"comercio/pkg/requestcontext"
)

// Service is the workflow surface the handler depends on.
type Service interface {
	RequestVerification(ctx context.Context, email string) (*service.RequestResult, error)
	ResendVerification(ctx context.Context, email string) (*service.ResendResult, error)
	ApproveVerification(ctx context.Context, email string) (*service.ApproveResult, error)
	RejectVerification(ctx context.Context, email, reason string) (*service.RejectResult, error)
	CancelVerification(ctx context.Context, email string) (*service.CancelResult, error)
	GetVerificationStatus(ctx context.Context, email string) (*models.VerificationRequest, error)
	ListVerifications(ctx context.Context, filter models.ListFilter) (*service.ListResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the user-facing endpoints. The router is expected to have
// authentication applied already.
func (h *Handler) Register(r chi.Router) {
	r.Post("/verification/request", h.HandleRequest)
	r.Post("/verification/resend", h.HandleResend)
	r.Get("/verification/{email}", h.HandleStatus)
}

// RegisterAdmin mounts the review endpoints. The router is expected to
// enforce the admin role.
func (h *Handler) RegisterAdmin(r chi.Router) {
	r.Get("/verifications", h.HandleList)
	r.Post("/verifications/{email}/approve", h.HandleApprove)
	r.Post("/verifications/{email}/reject", h.HandleReject)
	r.Post("/verifications/{email}/cancel", h.HandleCancel)
}

// HandleRequest handles POST /verification/request.
func (h *Handler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := requestcontext.ActorEmail(ctx)
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.RequestVerification(ctx, email)
	if err != nil {
		h.logError(ctx, "verification request failed", email, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, result)
}

// HandleResend handles POST /verification/resend.
func (h *Handler) HandleResend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := requestcontext.ActorEmail(ctx)
	if email == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}

	result, err := h.service.ResendVerification(ctx, email)
	if err != nil {
		h.logError(ctx, "verification resend failed", email, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleStatus handles GET /verification/{email}. Accounts may read their
// own status; administrators may read anyone's.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	actor := requestcontext.ActorEmail(ctx)
	if actor == "" {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "authentication required"))
		return
	}
	if !strings.EqualFold(actor, email) && !slices.Contains(requestcontext.Roles(ctx), directorymodels.RoleAdmin) {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "not allowed to view this verification"))
		return
	}

	req, err := h.service.GetVerificationStatus(ctx, email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, StatusFromRequest(req))
}

// HandleApprove handles POST /admin/verifications/{email}/approve.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	result, err := h.service.ApproveVerification(ctx, email)
	if err != nil {
		h.logError(ctx, "verification approval failed", email, err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "verification approved",
		"email", email,
		"actor", requestcontext.ActorEmail(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleReject handles POST /admin/verifications/{email}/reject. The body
// is optional; when present it carries the rejection reason.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	var reason string
	if r.ContentLength != 0 {
		body, ok := httputil.Decode[RejectRequest](w, r)
		if !ok {
			return
		}
		reason = body.Reason
	}

	result, err := h.service.RejectVerification(ctx, email, reason)
	if err != nil {
		h.logError(ctx, "verification rejection failed", email, err)
		httputil.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "verification rejected",
		"email", email,
		"status", result.Status,
		"attempts", result.Attempts,
		"actor", requestcontext.ActorEmail(ctx),
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleCancel handles POST /admin/verifications/{email}/cancel.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	result, err := h.service.CancelVerification(ctx, email)
	if err != nil {
		h.logError(ctx, "verification cancellation failed", email, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleList handles GET /admin/verifications.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := models.ListFilter{
		Status: models.Status(strings.ToUpper(r.URL.Query().Get("status"))),
	}
	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "page must be an integer"))
			return
		}
		filter.Page = page
	}
	if raw := r.URL.Query().Get("page_size"); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "page_size must be an integer"))
			return
		}
		filter.PageSize = size
	}

	result, err := h.service.ListVerifications(ctx, filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListFromResult(result))
}

func (h *Handler) logError(ctx context.Context, msg, email string, err error) {
	if dErrors.HasCode(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, msg,
			"email", email,
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		return
	}
	h.logger.WarnContext(ctx, msg,
		"email", email,
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
}
