package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const (
	// VerificationCodeTTL is how long an email verification code stays valid.
	VerificationCodeTTL = 24 * time.Hour
	// ResetTokenTTL is how long a password reset token stays valid.
	ResetTokenTTL = time.Hour
)

// codeSpan covers the full six-digit space [100000, 999999], so a code never
// starts with a leading zero and every code is equally likely.
const (
	codeMin  = 100000
	codeSpan = 900000
)

// NewVerificationCode returns a human-enterable six-digit code and its expiry.
// The code is drawn uniformly from [100000, 999999] using crypto/rand;
// predictability here is an account-takeover vector.
func NewVerificationCode() (string, time.Time, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("generate verification code: %w", err)
	}
	code := fmt.Sprintf("%06d", codeMin+n.Int64())
	return code, time.Now().UTC().Add(VerificationCodeTTL), nil
}

// NewResetToken returns a 160-bit random token hex-encoded (40 characters)
// and its expiry.
func NewResetToken() (string, time.Time, error) {
	b := make([]byte, 20)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, fmt.Errorf("generate reset token: %w", err)
	}
	return hex.EncodeToString(b), time.Now().UTC().Add(ResetTokenTTL), nil
}
