package model

import (
	"strings"
	"testing"
	"time"
)

func TestNewExamCodeFormat(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	code := NewExamCode(now)

	if !strings.HasPrefix(code, "EX20260314_") {
		t.Fatalf("code = %q, want EX20260314_ prefix", code)
	}
	suffix := strings.TrimPrefix(code, "EX20260314_")
	if len(suffix) != 6 {
		t.Errorf("suffix %q has length %d, want 6", suffix, len(suffix))
	}
	if suffix != strings.ToUpper(suffix) {
		t.Errorf("suffix %q is not uppercase", suffix)
	}
}

func TestNewExamCodeVaries(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := NewExamCode(now)
		if seen[code] {
			t.Fatalf("duplicate code %q within 100 draws", code)
		}
		seen[code] = true
	}
}

func TestExamDeadline(t *testing.T) {
	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	e := &Exam{StartTime: start}
	if _, ok := e.Deadline(); ok {
		t.Error("untimed exam reported a deadline")
	}

	e.TimeLimitMinutes = 45
	deadline, ok := e.Deadline()
	if !ok {
		t.Fatal("timed exam reported no deadline")
	}
	if want := start.Add(45 * time.Minute); !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestExamStatusIsOpen(t *testing.T) {
	open := []ExamStatus{ExamStatusDraft, ExamStatusInProgress}
	closed := []ExamStatus{ExamStatusCompleted, ExamStatusTimeout, ExamStatusCancelled}

	for _, s := range open {
		if !s.IsOpen() {
			t.Errorf("%s should be open", s)
		}
	}
	for _, s := range closed {
		if s.IsOpen() {
			t.Errorf("%s should not be open", s)
		}
	}
}

func TestValidAnswerValue(t *testing.T) {
	for _, v := range []int16{0, 1, 2} {
		if !ValidAnswerValue(v) {
			t.Errorf("ValidAnswerValue(%d) = false, want true", v)
		}
	}
	for _, v := range []int16{-1, 3, 100} {
		if ValidAnswerValue(v) {
			t.Errorf("ValidAnswerValue(%d) = true, want false", v)
		}
	}
}

func TestUserLimitsActivelyLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	l := &UserLimits{}
	if l.ActivelyLocked(now) {
		t.Error("no lock should not be active")
	}
	l.LockUntil = &future
	if !l.ActivelyLocked(now) {
		t.Error("future lock should be active")
	}
	l.LockUntil = &past
	if l.ActivelyLocked(now) {
		t.Error("expired lock should not be active")
	}
}
