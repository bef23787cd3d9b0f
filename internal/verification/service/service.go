// Package service implements the identity verification workflow
// coordinator: the state machine and business rules that take an account
// from "email confirmed" to "administrator-approved identity".
//
// Every operation treats its precondition checks and primary write as one
// serializable unit per email: a per-email mutex covers the in-process
// race, and the ledger's one-PENDING-per-email constraint arbitrates
// anything that slips past it (multi-instance deployments). Side effects
// (mail, notifications, cache invalidation, audit) never gate or roll back
// a committed transition; their failures are logged only.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"comercio/internal/audit"
	directorymodels "comercio/internal/directory/models"
	"comercio/internal/verification/metrics"
	"comercio/internal/verification/models"
	"comercio/internal/verification/ports"
	id "comercio/pkg/domain"
	dErrors "comercio/pkg/domain-errors"
	pkgemail "comercio/pkg/email"
	"comercio/pkg/platform/keylock"
	"comercio/pkg/platform/sentinel"
	"comercio/pkg/platform/tx"
	"comercio/pkg/requestcontext"
)

// Config carries the workflow knobs.
type Config struct {
	TTL                   time.Duration
	CooldownTTL           time.Duration
	MaxAttempts           int
	RequireConfirmedEmail bool
}

func DefaultConfig() Config {
	return Config{
		TTL:                   15 * time.Minute,
		CooldownTTL:           15 * time.Minute,
		MaxAttempts:           3,
		RequireConfirmedEmail: true,
	}
}

const sideEffectConcurrency = 4

// Service is the verification workflow coordinator.
type Service struct {
	ledger    ports.LedgerStore
	directory ports.Directory
	cooldown  ports.CooldownStore
	sink      ports.NotificationSink
	mailer    ports.EmailSender
	cache     ports.ReadModelCache
	tx        ports.TxRunner
	auditPub  ports.AuditPublisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	locks     *keylock.KeyedMutex
	cfg       Config

	dispatches errgroup.Group
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) { s.auditPub = publisher }
}

func WithReadModelCache(cache ports.ReadModelCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithTxRunner(runner ports.TxRunner) Option {
	return func(s *Service) { s.tx = runner }
}

func WithConfig(cfg Config) Option {
	return func(s *Service) { s.cfg = cfg }
}

func New(ledger ports.LedgerStore, directory ports.Directory, cooldown ports.CooldownStore, mailer ports.EmailSender, sink ports.NotificationSink, opts ...Option) (*Service, error) {
	if ledger == nil {
		return nil, errors.New("ledger store is required")
	}
	if directory == nil {
		return nil, errors.New("directory is required")
	}
	if cooldown == nil {
		return nil, errors.New("cooldown store is required")
	}
	if mailer == nil {
		return nil, errors.New("email sender is required")
	}
	if sink == nil {
		return nil, errors.New("notification sink is required")
	}

	s := &Service{
		ledger:    ledger,
		directory: directory,
		cooldown:  cooldown,
		mailer:    mailer,
		sink:      sink,
		tx:        tx.NewPassthrough(),
		logger:    slog.Default(),
		locks:     keylock.New(),
		cfg:       DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dispatches.SetLimit(sideEffectConcurrency)
	return s, nil
}

// RequestResult is the payload returned for a created verification request.
type RequestResult struct {
	ID        id.RequestID `json:"id"`
	Email     string       `json:"email"`
	ExpiresAt time.Time    `json:"expires_at"`
	EmailSent bool         `json:"email_sent"`
}

// ResendResult is the payload returned for a re-dispatched verification.
type ResendResult struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	EmailSent bool      `json:"email_sent"`
}

// ApproveResult is the payload returned for an approved verification.
type ApproveResult struct {
	Email               string    `json:"email"`
	VerifiedAt          time.Time `json:"verified_at"`
	ProfileCompleteness int       `json:"profile_completeness"`
	EmailSent           bool      `json:"email_sent"`
}

// RejectResult is the payload returned for a rejected verification.
type RejectResult struct {
	Email        string        `json:"email"`
	Status       models.Status `json:"status"`
	Attempts     int           `json:"attempts"`
	AttemptsLeft int           `json:"attempts_left"`
}

// CancelResult is the payload returned for a cancelled verification.
type CancelResult struct {
	Email  string        `json:"email"`
	Status models.Status `json:"status"`
}

// ListResult is one page of an admin ledger listing.
type ListResult struct {
	Items    []*models.VerificationRequest `json:"items"`
	Total    int                           `json:"total"`
	Page     int                           `json:"page"`
	PageSize int                           `json:"page_size"`
}

// RequestVerification starts a new verification cycle for email.
// Preconditions are checked in order; the first failure wins.
func (s *Service) RequestVerification(ctx context.Context, email string) (*RequestResult, error) {
	defer s.timeOperation("request")()
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)
	return s.requestLocked(ctx, email)
}

// requestLocked assumes the per-email lock is held.
func (s *Service) requestLocked(ctx context.Context, email string) (*RequestResult, error) {
	now := requestcontext.Now(ctx)

	account, err := s.directory.FindAccount(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if account == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	if !account.EmailConfirmed {
		return nil, dErrors.New(dErrors.CodeForbidden, "email not confirmed")
	}

	profile, err := s.directory.FindProfile(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
	}

	pending, err := s.ledger.FindPending(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending request")
	}
	if pending != nil {
		if pending.IsValid(now) {
			return nil, dErrors.New(dErrors.CodeConflict, "verification already pending")
		}
		// Stale PENDING row past its TTL: remove it before opening a new
		// attempt-window. Expiry is only ever observed lazily like this.
		if err := s.ledger.Delete(ctx, pending.ID); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard expired request")
		}
	}

	prior, err := s.lifetimeAttempts(ctx, email)
	if err != nil {
		return nil, err
	}
	if prior >= s.cfg.MaxAttempts {
		if s.metrics != nil {
			s.metrics.AttemptsExhausted.Inc()
		}
		return nil, dErrors.New(dErrors.CodeForbidden, "max attempts exceeded")
	}

	req := models.New(email, prior, s.cfg.MaxAttempts, s.cfg.TTL, now)
	if err := s.ledger.Create(ctx, req); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Race loser: another request slipped in between check and
			// write on a different instance. Same outcome as step 4.
			return nil, dErrors.New(dErrors.CodeConflict, "verification already pending")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create verification request")
	}
	if s.metrics != nil {
		s.metrics.RequestsCreated.Inc()
	}

	emailSent := s.mailer.SendVerificationEmail(ctx, email, req.Token, displayName(profile))
	if s.metrics != nil {
		s.metrics.ObserveEmailDispatch("verification", emailSent)
	}
	if !emailSent {
		s.logger.WarnContext(ctx, "verification email dispatch failed",
			"email", email,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	if err := s.cooldown.Arm(ctx, email, s.cfg.CooldownTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to arm resend cooldown", "email", email, "error", err)
	}

	s.notifyAdmins(ctx, email, req.ID)
	s.emitAudit(ctx, audit.EventVerificationRequested, email, req.ID, nil)

	return &RequestResult{
		ID:        req.ID,
		Email:     req.Email,
		ExpiresAt: req.ExpiresAt,
		EmailSent: emailSent,
	}, nil
}

// ResendVerification re-dispatches the pending token, or opens a fresh
// cycle when none is valid. Gated by the resend cooldown.
func (s *Service) ResendVerification(ctx context.Context, email string) (*ResendResult, error) {
	defer s.timeOperation("resend")()
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	active, err := s.cooldown.Active(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check resend cooldown")
	}
	if active {
		return nil, dErrors.New(dErrors.CodeTooManyRequests, "resend cooldown active")
	}

	profile, err := s.directory.FindProfile(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "profile not found")
	}

	now := requestcontext.Now(ctx)
	pending, err := s.ledger.FindPending(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending request")
	}
	if pending == nil || !pending.IsValid(now) {
		// No valid window to re-dispatch: fall through to a fresh cycle,
		// subject to all of its preconditions including the lifetime cap.
		created, err := s.requestLocked(ctx, email)
		if err != nil {
			return nil, err
		}
		return &ResendResult{Email: created.Email, ExpiresAt: created.ExpiresAt, EmailSent: created.EmailSent}, nil
	}

	emailSent := s.mailer.SendVerificationEmail(ctx, email, pending.Token, displayName(profile))
	if s.metrics != nil {
		s.metrics.ObserveEmailDispatch("verification", emailSent)
	}
	if !emailSent {
		// A resend exists only to deliver mail, so a dispatch failure is
		// the operation failing. The ledger is left untouched.
		return nil, dErrors.New(dErrors.CodeInternal, "failed to dispatch verification email")
	}

	if err := s.cooldown.Arm(ctx, email, s.cfg.CooldownTTL); err != nil {
		s.logger.WarnContext(ctx, "failed to re-arm resend cooldown", "email", email, "error", err)
	}
	s.emitAudit(ctx, audit.EventVerificationResent, email, pending.ID, nil)

	return &ResendResult{Email: email, ExpiresAt: pending.ExpiresAt, EmailSent: emailSent}, nil
}

// ApproveVerification is the administrator approval path, including both
// duplicate-identity checks. The account flip, completeness recompute and
// ledger transition commit as one transaction.
func (s *Service) ApproveVerification(ctx context.Context, email string) (*ApproveResult, error) {
	defer s.timeOperation("approve")()
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	now := requestcontext.Now(ctx)

	req, err := s.ledger.FindPending(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending request")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no pending verification request")
	}

	account, err := s.directory.FindAccount(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if account == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "account not found")
	}
	if account.IdentityVerified {
		return nil, dErrors.New(dErrors.CodeConflict, "already verified")
	}
	if !account.EmailConfirmed {
		if s.cfg.RequireConfirmedEmail {
			return nil, dErrors.New(dErrors.CodeForbidden, "email not confirmed")
		}
		s.logger.WarnContext(ctx, "approving verification without confirmed email",
			"email", email,
			"request_id", requestcontext.RequestID(ctx),
		)
	}

	profile, err := s.directory.FindProfile(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load profile")
	}
	if profile == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "incomplete profile")
	}

	// National ID is the real-world identity key; two profiles must never
	// both claim the same one. A hit cancels the request outright.
	dup, err := s.directory.FindProfileByNationalID(ctx, profile.NationalID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check national id")
	}
	if dup != nil && !strings.EqualFold(dup.Email, email) {
		if cancelErr := req.Cancel(); cancelErr == nil {
			if err := s.ledger.Update(ctx, req); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to cancel conflicting request")
			}
		}
		if s.metrics != nil {
			s.metrics.DuplicateIdentity.Inc()
		}
		return nil, dErrors.Newf(dErrors.CodeConflict, "duplicate national ID: already claimed by %s", dup.Email)
	}

	// A second verified account on the same email is a data anomaly, not a
	// user error: leave the request PENDING for operator re-inspection.
	dupAccount, err := s.directory.FindVerifiedAccount(ctx, email, account.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check verified accounts")
	}
	if dupAccount != nil {
		if s.metrics != nil {
			s.metrics.DuplicateIdentity.Inc()
		}
		return nil, dErrors.New(dErrors.CodeConflict, "duplicate verified account")
	}

	account.IdentityVerified = true
	account.ProfileCompleteness = directorymodels.Completeness(profile, account)
	account.UpdatedAt = now
	if err := req.Approve(now); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, "request no longer pending")
	}

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.directory.SaveAccount(txCtx, account); err != nil {
			return err
		}
		return s.ledger.Update(txCtx, req)
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to commit approval")
	}
	if s.metrics != nil {
		s.metrics.Approved.Inc()
	}

	emailSent := s.mailer.SendWelcomeEmail(ctx, email, displayName(profile))
	if s.metrics != nil {
		s.metrics.ObserveEmailDispatch("welcome", emailSent)
	}

	nationalID := profile.NationalID
	accountID := account.ID
	s.dispatch(ctx, func(ctx context.Context) {
		if s.cache != nil {
			if err := s.cache.InvalidateNationalID(ctx, nationalID); err != nil {
				s.logger.WarnContext(ctx, "failed to invalidate identity cache", "error", err)
			}
		}
	}, func(ctx context.Context) {
		if err := s.cooldown.Clear(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "failed to clear resend cooldown", "email", email, "error", err)
		}
	}, func(ctx context.Context) {
		err := s.sink.Notify(ctx, accountID, "verification_approved",
			"Identity verified",
			"Your identity has been verified. Your account now has full access.",
			map[string]string{"email": email})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to notify account holder", "email", email, "error", err)
		}
	})
	s.emitAudit(ctx, audit.EventVerificationApproved, email, req.ID, nil)

	return &ApproveResult{
		Email:               email,
		VerifiedAt:          now,
		ProfileCompleteness: account.ProfileCompleteness,
		EmailSent:           emailSent,
	}, nil
}

// RejectVerification burns one lifetime attempt. Exhausting the budget is a
// deliberately hard stop: the request expires and the cooldown stays armed
// until an operator intervenes.
func (s *Service) RejectVerification(ctx context.Context, email, reason string) (*RejectResult, error) {
	defer s.timeOperation("reject")()
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	req, err := s.ledger.FindPending(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending request")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no pending verification request")
	}

	status, err := req.Reject()
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, "request no longer pending")
	}
	if err := s.ledger.Update(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist rejection")
	}

	if s.metrics != nil {
		s.metrics.Rejected.Inc()
		if status == models.StatusExpired {
			s.metrics.AttemptsExhausted.Inc()
		}
	}

	// Only a CANCELLED outcome re-opens the door: the user may request
	// again immediately, so drop the cooldown. EXPIRED keeps it armed.
	if status == models.StatusCancelled {
		if err := s.cooldown.Clear(ctx, email); err != nil {
			s.logger.WarnContext(ctx, "failed to clear resend cooldown", "email", email, "error", err)
		}
	}

	attemptsLeft := req.AttemptsLeft()
	s.dispatch(ctx, func(ctx context.Context) {
		account, err := s.directory.FindAccount(ctx, email)
		if err != nil || account == nil {
			return
		}
		message := "Your identity verification was rejected."
		if reason != "" {
			message += " Reason: " + reason + "."
		}
		err = s.sink.Notify(ctx, account.ID, "verification_rejected",
			"Identity verification rejected", message,
			map[string]string{"email": email, "attempts_left": strconv.Itoa(attemptsLeft)})
		if err != nil {
			s.logger.WarnContext(ctx, "failed to notify account holder", "email", email, "error", err)
		}
	}, func(ctx context.Context) {
		profile, err := s.directory.FindProfile(ctx, email)
		if err != nil || profile == nil {
			return
		}
		ok := s.mailer.SendRejectionEmail(ctx, email, displayName(profile), reason, attemptsLeft)
		if s.metrics != nil {
			s.metrics.ObserveEmailDispatch("rejection", ok)
		}
		if !ok {
			s.logger.WarnContext(ctx, "rejection email dispatch failed", "email", email)
		}
	})
	action := audit.EventVerificationRejected
	if status == models.StatusExpired {
		action = audit.EventVerificationExpired
	}
	s.emitAudit(ctx, action, email, req.ID, map[string]string{"reason": reason})

	return &RejectResult{
		Email:        email,
		Status:       status,
		Attempts:     req.Attempts,
		AttemptsLeft: attemptsLeft,
	}, nil
}

// CancelVerification is an administrative withdrawal: no attempt is burned
// and the cooldown is cleared.
func (s *Service) CancelVerification(ctx context.Context, email string) (*CancelResult, error) {
	defer s.timeOperation("cancel")()
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	s.locks.Lock(email)
	defer s.locks.Unlock(email)

	req, err := s.ledger.FindPending(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pending request")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no pending verification request")
	}

	if err := req.Cancel(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConflict, "request no longer pending")
	}
	if err := s.ledger.Update(ctx, req); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist cancellation")
	}
	if err := s.cooldown.Clear(ctx, email); err != nil {
		s.logger.WarnContext(ctx, "failed to clear resend cooldown", "email", email, "error", err)
	}
	if s.metrics != nil {
		s.metrics.Cancelled.Inc()
	}
	s.emitAudit(ctx, audit.EventVerificationCancelled, email, req.ID, nil)

	return &CancelResult{Email: email, Status: req.Status}, nil
}

// GetVerificationStatus returns the most recent request for an email.
// Read-only projection; no state mutation, not even lazy expiry.
func (s *Service) GetVerificationStatus(ctx context.Context, email string) (*models.VerificationRequest, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}

	req, err := s.ledger.FindLatest(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification request")
	}
	if req == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "no verification request for email")
	}
	return req, nil
}

// ListVerifications is the admin dashboard listing.
func (s *Service) ListVerifications(ctx context.Context, filter models.ListFilter) (*ListResult, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown status filter")
	}
	filter.Normalize()

	items, total, err := s.ledger.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list verification requests")
	}
	return &ListResult{Items: items, Total: total, Page: filter.Page, PageSize: filter.PageSize}, nil
}

// Wait blocks until in-flight side-effect dispatches have finished. Called
// on shutdown and by tests that assert on fan-out results.
func (s *Service) Wait() {
	_ = s.dispatches.Wait()
}

func (s *Service) timeOperation(op string) func() {
	if s.metrics == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		s.metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	}
}

// lifetimeAttempts derives the email's consumed attempt budget from its
// terminal ledger rows. Attempts are carried forward row to row, so the
// largest value observed is the lifetime count; summing carried values
// would double-count earlier cycles.
func (s *Service) lifetimeAttempts(ctx context.Context, email string) (int, error) {
	terminal, err := s.ledger.ListTerminal(ctx, email)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load verification history")
	}
	prior := 0
	for _, r := range terminal {
		prior = max(prior, r.Attempts)
	}
	return prior, nil
}

// notifyAdmins fans a new-request notification out to every administrator.
func (s *Service) notifyAdmins(ctx context.Context, email string, requestID id.RequestID) {
	s.dispatch(ctx, func(ctx context.Context) {
		admins, err := s.directory.ListAccountsByRole(ctx, directorymodels.RoleAdmin)
		if err != nil {
			s.logger.WarnContext(ctx, "failed to list administrators", "error", err)
			return
		}
		for _, admin := range admins {
			err := s.sink.Notify(ctx, admin.ID, "verification_requested",
				"New identity verification request",
				"A verification request for "+email+" is waiting for review.",
				map[string]string{"email": email, "request_id": requestID.String()})
			if err != nil {
				s.logger.WarnContext(ctx, "failed to notify administrator",
					"admin", admin.Email, "error", err)
			}
		}
	})
}

// dispatch runs side-effect tasks detached from the request lifecycle with
// bounded concurrency. Failures are each task's own logging concern.
func (s *Service) dispatch(ctx context.Context, tasks ...func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	for _, task := range tasks {
		s.dispatches.Go(func() error {
			task(detached)
			return nil
		})
	}
}

func (s *Service) emitAudit(ctx context.Context, action, email string, requestID id.RequestID, detail map[string]string) {
	s.logger.InfoContext(ctx, action,
		"email", email,
		"verification_id", requestID.String(),
		"request_id", requestcontext.RequestID(ctx),
		"log_type", "audit",
	)
	if s.auditPub == nil {
		return
	}
	event := audit.Event{
		Timestamp: requestcontext.Now(ctx),
		Email:     email,
		RequestID: requestID.String(),
		Action:    action,
		Detail:    detail,
	}
	s.dispatch(ctx, func(ctx context.Context) {
		if err := s.auditPub.Emit(ctx, event); err != nil {
			s.logger.WarnContext(ctx, "failed to emit audit event", "action", action, "error", err)
		}
	})
}

func normalizeEmail(email string) (string, error) {
	email = pkgemail.Normalize(email)
	if !pkgemail.Valid(email) {
		return "", dErrors.New(dErrors.CodeValidation, "invalid email address")
	}
	return email, nil
}

func displayName(profile *directorymodels.Profile) string {
	if profile.Name != "" {
		return profile.Name
	}
	return pkgemail.DisplayName(profile.Email)
}

