package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karirlab/arahkarir-backend/internal/model"
)

const userLimitsColumns = `user_id, free_exam_violations, paid_exam_violations,
	 lock_until, lock_reason, is_permanently_locked,
	 access_revoked, revoke_reason, revoked_at, created_at, updated_at`

// UserLimitsRepository handles the per-user violation/lock aggregate. All
// mutations are expressed as explicit commands so the atomicity of
// increment-then-check is enforced at the store, not by caller convention.
type UserLimitsRepository struct {
	pool *pgxpool.Pool
}

// NewUserLimitsRepository creates a new UserLimitsRepository.
func NewUserLimitsRepository(pool *pgxpool.Pool) *UserLimitsRepository {
	return &UserLimitsRepository{pool: pool}
}

func scanUserLimits(row pgx.Row) (*model.UserLimits, error) {
	l := &model.UserLimits{}
	var lockReason, revokeReason *string
	err := row.Scan(&l.UserID, &l.FreeExamViolations, &l.PaidExamViolations,
		&l.LockUntil, &lockReason, &l.IsPermanentlyLocked,
		&l.AccessRevoked, &revokeReason, &l.RevokedAt, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if lockReason != nil {
		l.LockReason = *lockReason
	}
	if revokeReason != nil {
		l.RevokeReason = *revokeReason
	}
	return l, nil
}

// GetOrCreate returns the user's limits row, lazily creating an all-zero
// default on first access. The upsert is idempotent under concurrent
// first-time checks: the primary key wins the race and both callers read
// the same row.
func (r *UserLimitsRepository) GetOrCreate(ctx context.Context, userID int64) (*model.UserLimits, error) {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO user_limits (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure limits row: %w", err)
	}
	return scanUserLimits(r.pool.QueryRow(ctx,
		`SELECT `+userLimitsColumns+` FROM user_limits WHERE user_id = $1`, userID))
}

// IncrementViolation atomically bumps the violation counter for the given
// exam kind and returns the new count. UPDATE ... RETURNING makes two
// concurrent fraud evaluations serialize at the row, so no crossing of the
// threshold can be under-counted.
func (r *UserLimitsRepository) IncrementViolation(ctx context.Context, userID int64, kind model.ExamKind) (int, error) {
	column := "free_exam_violations"
	if kind == model.ExamKindPaid {
		column = "paid_exam_violations"
	}
	var n int
	err := r.pool.QueryRow(ctx,
		`UPDATE user_limits
		 SET `+column+` = `+column+` + 1, updated_at = NOW()
		 WHERE user_id = $1
		 RETURNING `+column, userID).Scan(&n)
	return n, err
}

// ApplyLock sets a time-bounded lock on the user.
func (r *UserLimitsRepository) ApplyLock(ctx context.Context, userID int64, until time.Time, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_limits
		 SET lock_until = $1, lock_reason = $2, updated_at = NOW()
		 WHERE user_id = $3`, until, reason, userID)
	return err
}

// Revoke permanently revokes the user's paid exam access. Idempotent: an
// already revoked row keeps its original revoked_at.
func (r *UserLimitsRepository) Revoke(ctx context.Context, userID int64, reason string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_limits
		 SET access_revoked = TRUE,
		     revoke_reason = COALESCE(NULLIF(revoke_reason, ''), $1),
		     revoked_at = COALESCE(revoked_at, NOW()),
		     updated_at = NOW()
		 WHERE user_id = $2`, reason, userID)
	return err
}

// ClearLock removes a time-bounded lock (administrative reset).
func (r *UserLimitsRepository) ClearLock(ctx context.Context, userID int64) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE user_limits
		 SET lock_until = NULL, lock_reason = NULL, updated_at = NOW()
		 WHERE user_id = $1`, userID)
	return err
}
