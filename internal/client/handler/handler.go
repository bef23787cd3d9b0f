// Package handler exposes client record management. All endpoints are
// administrative.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"comercio/internal/client/models"
	"comercio/internal/client/service"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	"comercio/pkg/platform/httputil"
	"comercio/pkg/requestcontext"
)

type Service interface {
	Create(ctx context.Context, in service.CreateInput) (*models.Client, error)
	Get(ctx context.Context, clientID id.ClientID) (*models.Client, error)
	Update(ctx context.Context, clientID id.ClientID, in service.CreateInput) (*models.Client, error)
	Delete(ctx context.Context, clientID id.ClientID) error
	List(ctx context.Context, filter models.ListFilter) (*service.ListResult, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/clients", h.HandleCreate)
	r.Get("/clients", h.HandleList)
	r.Get("/clients/{id}", h.HandleGet)
	r.Put("/clients/{id}", h.HandleUpdate)
	r.Delete("/clients/{id}", h.HandleDelete)
}

// ClientRequest is the create/update body.
type ClientRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Zone  string `json:"zone"`
}

func (req ClientRequest) toInput() service.CreateInput {
	return service.CreateInput{
		Name:  req.Name,
		TaxID: req.TaxID,
		Email: req.Email,
		Phone: req.Phone,
		Zone:  req.Zone,
	}
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.Decode[ClientRequest](w, r)
	if !ok {
		return
	}

	client, err := h.service.Create(ctx, req.toInput())
	if err != nil {
		h.logger.WarnContext(ctx, "client creation failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, client)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	clientID, err := id.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	client, err := h.service.Get(r.Context(), clientID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	clientID, err := id.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[ClientRequest](w, r)
	if !ok {
		return
	}

	client, err := h.service.Update(r.Context(), clientID, req.toInput())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, client)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	clientID, err := id.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), clientID); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := models.ListFilter{Zone: r.URL.Query().Get("zone")}
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

	result, err := h.service.List(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}
