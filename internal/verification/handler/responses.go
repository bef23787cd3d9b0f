package handler

import (
	"time"

	"comercio/internal/verification/models"
	"comercio/internal/verification/service"
	id "comercio/pkg/domain"
)

// RejectRequest is the optional body of a rejection.
type RejectRequest struct {
	Reason string `json:"reason"`
}

// StatusResponse is the projection of a ledger row returned to callers.
// The verification token is deliberately absent; it only ever travels by
// email.
type StatusResponse struct {
	ID           id.RequestID  `json:"id"`
	Email        string        `json:"email"`
	Status       models.Status `json:"status"`
	Attempts     int           `json:"attempts"`
	MaxAttempts  int           `json:"max_attempts"`
	AttemptsLeft int           `json:"attempts_left"`
	CreatedAt    time.Time     `json:"created_at"`
	ExpiresAt    time.Time     `json:"expires_at"`
	VerifiedAt   *time.Time    `json:"verified_at,omitempty"`
}

func StatusFromRequest(req *models.VerificationRequest) StatusResponse {
	return StatusResponse{
		ID:           req.ID,
		Email:        req.Email,
		Status:       req.Status,
		Attempts:     req.Attempts,
		MaxAttempts:  req.MaxAttempts,
		AttemptsLeft: req.AttemptsLeft(),
		CreatedAt:    req.CreatedAt,
		ExpiresAt:    req.ExpiresAt,
		VerifiedAt:   req.VerifiedAt,
	}
}

// ListResponse is one page of the admin listing.
type ListResponse struct {
	Items    []StatusResponse `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

func ListFromResult(result *service.ListResult) ListResponse {
	items := make([]StatusResponse, 0, len(result.Items))
	for _, req := range result.Items {
		items = append(items, StatusFromRequest(req))
	}
	return ListResponse{
		Items:    items,
		Total:    result.Total,
		Page:     result.Page,
		PageSize: result.PageSize,
	}
}
