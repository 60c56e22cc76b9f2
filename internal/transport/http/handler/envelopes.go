package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/auth-api-nosql/internal/domain"
)

// Envelope is the generic response wrapper: a success flag, a human-readable
// message, and optionally the account view. Internal error details never
// appear here.
type Envelope struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	User    *AccountView `json:"user,omitempty"`
}

// AccountView is the outbound shape of an account. It has no password digest
// field at all, so no serialization path can leak one.
type AccountView struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsVerified  bool       `json:"is_verified"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func toView(a *domain.Account) *AccountView {
	if a == nil {
		return nil
	}
	return &AccountView{
		ID:          a.AccountID,
		Email:       a.Email,
		Name:        a.Name,
		IsVerified:  a.IsVerified,
		LastLoginAt: a.LastLoginAt,
		CreatedAt:   a.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg})
}

// httpError maps domain sentinel errors to a 400 with their message; anything
// unexpected becomes an opaque 500.
func httpError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAuthentication),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "server error")
	}
}
