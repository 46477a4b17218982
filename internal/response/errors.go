package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrUserInactive       ErrCode = "USER_INACTIVE"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrAdminAccessOnly ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrInvalidAnswer  ErrCode = "INVALID_ANSWER_VALUE"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"

	// ─── Exam lifecycle ────────────────────────────────────────────────
	ErrExamAlreadyInProgress ErrCode = "EXAM_ALREADY_IN_PROGRESS"
	ErrExamNotOpen           ErrCode = "EXAM_NOT_OPEN"
	ErrExamTimedOut          ErrCode = "EXAM_TIMED_OUT"
	ErrExamIncomplete        ErrCode = "EXAM_INCOMPLETE"
	ErrQuestionNotInExam     ErrCode = "QUESTION_NOT_IN_EXAM"
	ErrQuestionInactive      ErrCode = "QUESTION_INACTIVE"
	ErrInsufficientBank      ErrCode = "INSUFFICIENT_QUESTION_BANK"

	// ─── Eligibility ───────────────────────────────────────────────────
	ErrTemporarilyLocked     ErrCode = "TEMPORARILY_LOCKED"
	ErrPermanentlyLocked     ErrCode = "PERMANENTLY_LOCKED"
	ErrFreeExamLimitLocked   ErrCode = "FREE_EXAM_LIMIT_LOCKED"
	ErrPaidExamAccessRevoked ErrCode = "PAID_EXAM_ACCESS_REVOKED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Email atau kata sandi salah."
	case ErrUserInactive:
		return "Akun Anda tidak aktif. Silakan hubungi dukungan."
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrTokenExpired:
		return "Token autentikasi telah kedaluwarsa."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."
	case ErrAdminAccessOnly:
		return "Sumber daya ini terbatas untuk administrator."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."
	case ErrInvalidAnswer:
		return "Nilai jawaban harus 0 (Tidak Setuju), 1 (Netral), atau 2 (Setuju)."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."

	// ─── Exam lifecycle ────────────────────────────────────────────────
	case ErrExamAlreadyInProgress:
		return "Anda masih memiliki tes yang sedang berlangsung."
	case ErrExamNotOpen:
		return "Tes ini sudah tidak dapat dikerjakan."
	case ErrExamTimedOut:
		return "Batas waktu tes telah habis."
	case ErrExamIncomplete:
		return "Semua pertanyaan harus dijawab sebelum tes dapat diselesaikan."
	case ErrQuestionNotInExam:
		return "Pertanyaan ini bukan bagian dari tes Anda."
	case ErrQuestionInactive:
		return "Pertanyaan ini sudah tidak aktif."
	case ErrInsufficientBank:
		return "Bank soal belum mencukupi untuk membuat tes. Silakan coba lagi nanti."

	// ─── Eligibility ───────────────────────────────────────────────────
	case ErrTemporarilyLocked:
		return "Akses tes Anda terkunci sementara."
	case ErrPermanentlyLocked:
		return "Akses tes Anda terkunci permanen. Silakan hubungi dukungan."
	case ErrFreeExamLimitLocked:
		return "Akses tes gratis Anda terkunci karena pelanggaran berulang."
	case ErrPaidExamAccessRevoked:
		return "Akses tes berbayar Anda telah dicabut karena pelanggaran berulang."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Terlalu banyak permintaan. Silakan coba lagi nanti."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Terjadi kesalahan server internal."
	default:
		return "Terjadi kesalahan yang tidak terduga."
	}
}
