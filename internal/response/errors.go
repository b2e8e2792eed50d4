package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrTokenRequired ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid  ErrCode = "TOKEN_INVALID"
	ErrTokenExpired  ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden ErrCode = "FORBIDDEN"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Tryout / attempt ──────────────────────────────────────────────
	ErrTryoutNotAvailable ErrCode = "TRYOUT_NOT_AVAILABLE"
	ErrInvalidAccessCode  ErrCode = "INVALID_ACCESS_CODE"
	ErrInvalidCatalog     ErrCode = "INVALID_CATALOG"
	ErrNoQuestions        ErrCode = "NO_QUESTIONS"
	ErrAttemptNotFound    ErrCode = "ATTEMPT_NOT_FOUND"
	ErrOutOfRange         ErrCode = "OUT_OF_RANGE"
	ErrSessionClosed      ErrCode = "SESSION_CLOSED"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrTokenRequired:
		return "Token autentikasi diperlukan."
	case ErrTokenInvalid:
		return "Token autentikasi tidak valid."
	case ErrTokenExpired:
		return "Token autentikasi telah kedaluwarsa."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Anda tidak memiliki izin untuk mengakses sumber daya ini."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validasi gagal. Silakan periksa masukan Anda."
	case ErrInvalidID:
		return "Format ID tidak valid."
	case ErrInvalidPayload:
		return "Payload permintaan tidak valid."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Sumber daya tidak ditemukan."
	case ErrConflict:
		return "Sumber daya sudah ada."

	// ─── Tryout / attempt ──────────────────────────────────────────────
	case ErrTryoutNotAvailable:
		return "Tryout ini saat ini tidak tersedia."
	case ErrInvalidAccessCode:
		return "Kode akses tryout tidak valid."
	case ErrInvalidCatalog:
		return "Kumpulan soal tryout ini tidak valid."
	case ErrNoQuestions:
		return "Tryout ini tidak memiliki soal."
	case ErrAttemptNotFound:
		return "Sesi pengerjaan tidak ditemukan."
	case ErrOutOfRange:
		return "Nomor soal di luar jangkauan."
	case ErrSessionClosed:
		return "Sesi pengerjaan sudah selesai."

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
