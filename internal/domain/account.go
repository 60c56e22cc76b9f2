package domain

import "time"

// Account is the sole persistent entity: one record per registered email.
// Token fields use ",omitempty" so the verification_token / reset_token GSIs
// stay sparse: a cleared token drops out of the index entirely.
type Account struct {
	AccountID             string     `json:"id" dynamodbav:"account_id"`
	Email                 string     `json:"email" dynamodbav:"email"`
	Name                  string     `json:"name" dynamodbav:"name"`
	PasswordHash          string     `json:"-" dynamodbav:"password_hash"`
	IsVerified            bool       `json:"is_verified" dynamodbav:"is_verified"`
	VerificationToken     string     `json:"-" dynamodbav:"verification_token,omitempty"`
	VerificationExpiresAt int64      `json:"-" dynamodbav:"verification_expires_at,omitempty"` // Unix seconds
	ResetToken            string     `json:"-" dynamodbav:"reset_token,omitempty"`
	ResetExpiresAt        int64      `json:"-" dynamodbav:"reset_expires_at,omitempty"` // Unix seconds
	LastLoginAt           *time.Time `json:"last_login_at,omitempty" dynamodbav:"last_login_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" dynamodbav:"updated_at"`
}

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
