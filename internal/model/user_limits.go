package model

import "time"

// UserLimits is the per-user violation and access-restriction aggregate,
// 1:1 with a user. Rows are created lazily with zero values on the first
// eligibility check and never deleted.
type UserLimits struct {
	UserID             int64      `json:"user_id"`
	FreeExamViolations int        `json:"free_exam_violations"`
	PaidExamViolations int        `json:"paid_exam_violations"`
	LockUntil          *time.Time `json:"lock_until,omitempty"`
	LockReason         string     `json:"lock_reason,omitempty"`
	IsPermanentlyLocked bool      `json:"is_permanently_locked"`
	AccessRevoked      bool       `json:"access_revoked"`
	RevokeReason       string     `json:"revoke_reason,omitempty"`
	RevokedAt          *time.Time `json:"revoked_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ActivelyLocked reports whether a time-bounded lock is still in force.
func (l *UserLimits) ActivelyLocked(now time.Time) bool {
	return l.LockUntil != nil && l.LockUntil.After(now)
}

// ViolationsFor returns the violation counter for the given exam kind.
func (l *UserLimits) ViolationsFor(kind ExamKind) int {
	if kind == ExamKindPaid {
		return l.PaidExamViolations
	}
	return l.FreeExamViolations
}
