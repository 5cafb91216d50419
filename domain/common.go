package domain

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	DefaultPageSize = 6
	MaxPageSize     = 100
)

var (
	MesaageUserNotAllowed       = "user not allowed"
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"

	ErrUserNotAllowed = NewError(KindPermissionDenied, "user not allowed")
	ErrTokenNotFound  = NewError(KindUnauthorized, "failed to token not found")
	ErrTokenInvalid   = NewError(KindUnauthorized, "token invalid")
	ErrTokenExpired   = NewError(KindUnauthorized, "token expired")
	ErrActorNotFound  = NewError(KindUnauthorized, "the user of this token no longer exists")
)

type (
	Pagination struct {
		Page       int   `json:"page"`
		Limit      int   `json:"limit"`
		Total      int64 `json:"total"`
		TotalPages int64 `json:"total_pages"`
	}

	PageRequest struct {
		Page  int
		Limit int
	}
)

// Normalize clamps page and limit into their valid ranges.
func (p PageRequest) Normalize() PageRequest {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	return p
}

func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

func NewPagination(p PageRequest, total int64) Pagination {
	return Pagination{
		Page:       p.Page,
		Limit:      p.Limit,
		Total:      total,
		TotalPages: (total + int64(p.Limit) - 1) / int64(p.Limit),
	}
}
