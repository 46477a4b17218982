package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/karirlab/arahkarir-backend/internal/config"
	"github.com/karirlab/arahkarir-backend/internal/model"
)

// UserLimitsService owns the eligibility policy: violation thresholds,
// time-bounded FREE locks and permanent PAID revocation. CreateExam and the
// standalone eligibility endpoint both go through CheckEligibility so the
// two paths cannot diverge.
type UserLimitsService struct {
	limits UserLimitsStore
	users  UserStore
	cfg    *config.Config
	log    zerolog.Logger
	now    func() time.Time
}

// NewUserLimitsService creates a new UserLimitsService.
func NewUserLimitsService(limits UserLimitsStore, users UserStore, cfg *config.Config, log zerolog.Logger) *UserLimitsService {
	return &UserLimitsService{
		limits: limits,
		users:  users,
		cfg:    cfg,
		log:    log.With().Str("component", "user_limits_service").Logger(),
		now:    time.Now,
	}
}

// CheckEligibility verifies that the user may start a new exam of the given
// kind. Crossing a violation threshold applies the corresponding lock or
// revocation as a committed side effect even though the call still fails —
// the side effect is the point of the check.
func (s *UserLimitsService) CheckEligibility(ctx context.Context, userID int64, kind model.ExamKind) (*model.UserLimits, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserInactive
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	lim, err := s.limits.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user limits: %w", err)
	}

	now := s.now()

	if lim.IsPermanentlyLocked {
		return nil, &PermanentlyLockedError{Reason: lim.LockReason}
	}
	if lim.ActivelyLocked(now) {
		return nil, &TemporarilyLockedError{Until: *lim.LockUntil, Reason: lim.LockReason}
	}

	switch kind {
	case model.ExamKindFree:
		if lim.FreeExamViolations >= s.cfg.FreeViolationLimit {
			until := now.Add(s.cfg.FreeLockDuration)
			reason := fmt.Sprintf("Melebihi batas pelanggaran tes gratis (%d kali)", lim.FreeExamViolations)
			if err := s.limits.ApplyLock(ctx, userID, until, reason); err != nil {
				return nil, fmt.Errorf("apply lock: %w", err)
			}
			s.log.Warn().
				Int64("user_id", userID).
				Int("violations", lim.FreeExamViolations).
				Time("lock_until", until).
				Msg("Free exam lock applied")
			return nil, &FreeExamLimitLockedError{Until: until, Violations: lim.FreeExamViolations}
		}
	case model.ExamKindPaid:
		if lim.AccessRevoked {
			return nil, &PaidExamAccessRevokedError{Reason: lim.RevokeReason, Violations: lim.PaidExamViolations}
		}
		if lim.PaidExamViolations >= s.cfg.PaidViolationLimit {
			reason := fmt.Sprintf("Melebihi batas pelanggaran tes berbayar (%d kali)", lim.PaidExamViolations)
			if err := s.limits.Revoke(ctx, userID, reason); err != nil {
				return nil, fmt.Errorf("revoke access: %w", err)
			}
			s.log.Warn().
				Int64("user_id", userID).
				Int("violations", lim.PaidExamViolations).
				Msg("Paid exam access revoked")
			return nil, &PaidExamAccessRevokedError{Reason: reason, Violations: lim.PaidExamViolations}
		}
	}

	return lim, nil
}

// RecordViolation atomically increments the violation counter for the exam
// kind. Lock and revocation side effects are applied on the next eligibility
// check, where the thresholds live.
func (s *UserLimitsService) RecordViolation(ctx context.Context, userID int64, kind model.ExamKind, reason string) error {
	// Row may not exist yet if the exam predates the limits aggregate.
	if _, err := s.limits.GetOrCreate(ctx, userID); err != nil {
		return fmt.Errorf("ensure limits row: %w", err)
	}
	n, err := s.limits.IncrementViolation(ctx, userID, kind)
	if err != nil {
		return fmt.Errorf("increment violation: %w", err)
	}
	s.log.Info().
		Int64("user_id", userID).
		Str("exam_kind", string(kind)).
		Int("violations", n).
		Str("reason", reason).
		Msg("Violation recorded")
	return nil
}

// GetLimits returns the user's limits row, creating the default lazily.
func (s *UserLimitsService) GetLimits(ctx context.Context, userID int64) (*model.UserLimits, error) {
	return s.limits.GetOrCreate(ctx, userID)
}

// ClearLock removes a time-bounded lock (administrative reset).
func (s *UserLimitsService) ClearLock(ctx context.Context, userID int64) error {
	if err := s.limits.ClearLock(ctx, userID); err != nil {
		return fmt.Errorf("clear lock: %w", err)
	}
	s.log.Info().Int64("user_id", userID).Msg("Lock cleared by admin")
	return nil
}
