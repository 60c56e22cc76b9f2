package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/auth-api-nosql/internal/application/notify"
	"github.com/auth-api-nosql/internal/domain"
	"github.com/auth-api-nosql/internal/pkg/id"
	"github.com/auth-api-nosql/internal/pkg/password"
	pkgtoken "github.com/auth-api-nosql/internal/pkg/token"
	"github.com/auth-api-nosql/internal/pkg/validate"
)

// DynamoDB attribute names used in partial update maps.
const (
	fieldIsVerified        = "is_verified"
	fieldVerificationToken = "verification_token"
	fieldVerificationExp   = "verification_expires_at"
	fieldResetToken        = "reset_token"
	fieldResetExp          = "reset_expires_at"
	fieldPasswordHash      = "password_hash"
	fieldLastLoginAt       = "last_login_at"
)

// Service is the credential lifecycle state machine. Each call reads current
// account state from the store, applies one transition, and persists it in a
// single write; nothing is cached between requests.
type Service interface {
	Signup(ctx context.Context, req domain.SignupRequest) (*domain.Account, string, error)
	VerifyEmail(ctx context.Context, code string) (*domain.Account, error)
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	CheckAuth(ctx context.Context, accountID string) (*domain.Account, error)
}

type accountStore interface {
	Put(ctx context.Context, a *domain.Account) error
	Get(ctx context.Context, accountID string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	GetByVerificationToken(ctx context.Context, code string) (*domain.Account, error)
	GetByResetToken(ctx context.Context, token string) (*domain.Account, error)
	Update(ctx context.Context, accountID string, sets map[string]interface{}, removes []string) error
}

type credentialSigner interface {
	Sign(accountID string) (string, error)
}

type service struct {
	repo       accountStore
	dispatcher notify.Dispatcher
	signer     credentialSigner
	hasher     *password.Hasher
	clientURL  string
}

type ServiceDeps struct {
	AccountRepo accountStore
	Dispatcher  notify.Dispatcher
	Signer      credentialSigner
	Hasher      *password.Hasher
	// ClientURL is the frontend base for reset links.
	ClientURL string
}

func NewService(deps ServiceDeps) Service {
	return &service{
		repo:       deps.AccountRepo,
		dispatcher: deps.Dispatcher,
		signer:     deps.Signer,
		hasher:     deps.Hasher,
		clientURL:  deps.ClientURL,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) (*domain.Account, string, error) {
	if err := validate.Struct(&req); err != nil {
		return nil, "", fmt.Errorf("%s: %w", err.Error(), domain.ErrValidation)
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", err
	}
	code, expiresAt, err := pkgtoken.NewVerificationCode()
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	a := &domain.Account{
		AccountID:             id.New(),
		Email:                 req.Email,
		Name:                  req.Name,
		PasswordHash:          hash,
		IsVerified:            false,
		VerificationToken:     code,
		VerificationExpiresAt: expiresAt.Unix(),
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if err := s.repo.Put(ctx, a); err != nil {
		return nil, "", err
	}

	credential, err := s.signer.Sign(a.AccountID)
	if err != nil {
		return nil, "", err
	}

	// The account is durable at this point; a failed email never undoes it.
	if err := s.dispatcher.VerificationEmail(a.Email, code); err != nil {
		slog.Warn("verification email not delivered", "account_id", a.AccountID, "err", err)
	}
	return a, credential, nil
}

func (s *service) VerifyEmail(ctx context.Context, code string) (*domain.Account, error) {
	a, err := s.repo.GetByVerificationToken(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("invalid or expired verification code: %w", domain.ErrInvalidToken)
		}
		return nil, err
	}
	// Strict expiry: a code presented exactly at its expiry instant is dead.
	if a.VerificationExpiresAt <= time.Now().Unix() {
		return nil, fmt.Errorf("invalid or expired verification code: %w", domain.ErrInvalidToken)
	}

	// One write flips the state and consumes the code, so a concurrent replay
	// of the same code cannot verify twice.
	sets := map[string]interface{}{fieldIsVerified: true}
	removes := []string{fieldVerificationToken, fieldVerificationExp}
	if err := s.repo.Update(ctx, a.AccountID, sets, removes); err != nil {
		return nil, err
	}
	a.IsVerified = true
	a.VerificationToken = ""
	a.VerificationExpiresAt = 0

	if err := s.dispatcher.WelcomeEmail(a.Email, a.Name); err != nil {
		slog.Warn("welcome email not delivered", "account_id", a.AccountID, "err", err)
	}
	return a, nil
}

// Login deliberately returns the same error for an unknown email and a wrong
// password, so responses cannot be used to enumerate accounts. Verification
// is not required to log in.
func (s *service) Login(ctx context.Context, req domain.LoginRequest) (*domain.Account, string, error) {
	a, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrAuthentication
		}
		return nil, "", err
	}
	ok, err := s.hasher.Verify(req.Password, a.PasswordHash)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", domain.ErrAuthentication
	}

	credential, err := s.signer.Sign(a.AccountID)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	sets := map[string]interface{}{fieldLastLoginAt: now.Format(time.RFC3339)}
	if err := s.repo.Update(ctx, a.AccountID, sets, nil); err != nil {
		return nil, "", err
	}
	a.LastLoginAt = &now
	return a, credential, nil
}

func (s *service) ForgotPassword(ctx context.Context, email string) error {
	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("account not found: %w", domain.ErrNotFound)
		}
		return err
	}

	tok, expiresAt, err := pkgtoken.NewResetToken()
	if err != nil {
		return err
	}

	// SET overwrites any earlier reset token; only the newest one can resolve.
	sets := map[string]interface{}{
		fieldResetToken: tok,
		fieldResetExp:   expiresAt.Unix(),
	}
	if err := s.repo.Update(ctx, a.AccountID, sets, nil); err != nil {
		return err
	}

	resetURL := s.clientURL + "/reset-password/" + tok
	if err := s.dispatcher.PasswordResetEmail(a.Email, resetURL); err != nil {
		slog.Warn("password reset email not delivered", "account_id", a.AccountID, "err", err)
	}
	return nil
}

func (s *service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("password is required: %w", domain.ErrValidation)
	}

	a, err := s.repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("invalid or expired reset token: %w", domain.ErrInvalidToken)
		}
		return err
	}
	if a.ResetExpiresAt <= time.Now().Unix() {
		return fmt.Errorf("invalid or expired reset token: %w", domain.ErrInvalidToken)
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	// Rotating the hash and consuming the token is one write; the token can
	// never authorize a second change.
	sets := map[string]interface{}{fieldPasswordHash: hash}
	removes := []string{fieldResetToken, fieldResetExp}
	if err := s.repo.Update(ctx, a.AccountID, sets, removes); err != nil {
		return err
	}

	if err := s.dispatcher.ResetSuccessEmail(a.Email); err != nil {
		slog.Warn("reset confirmation email not delivered", "account_id", a.AccountID, "err", err)
	}
	return nil
}

func (s *service) CheckAuth(ctx context.Context, accountID string) (*domain.Account, error) {
	a, err := s.repo.Get(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("account not found: %w", domain.ErrNotFound)
		}
		return nil, err
	}
	return a, nil
}
