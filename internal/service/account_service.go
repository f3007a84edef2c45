package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"portfoliostudio/internal/auth"
	apperrors "portfoliostudio/internal/errors"
	"portfoliostudio/internal/mail"
	"portfoliostudio/internal/metrics"
	"portfoliostudio/internal/model"
	"portfoliostudio/internal/repository"
	"portfoliostudio/internal/settings"
)

// VerificationTTL is the lifetime of an email verification link.
const VerificationTTL = 30 * time.Minute

// SignupInput carries the signup form.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// SignupResult is returned by Signup.
type SignupResult struct {
	User                      *model.User `json:"user"`
	Site                      *model.Site `json:"site"`
	RequiresEmailVerification bool        `json:"requiresEmailVerification"`
	VerificationEmailSent     bool        `json:"verificationEmailSent"`
}

// Session is an issued access token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Profile is the signed in user's overview.
type Profile struct {
	User    *model.User     `json:"user"`
	Sites   []model.Site    `json:"sites"`
	Billing *BillingSummary `json:"billing"`
}

// AccountService handles studio customer accounts.
type AccountService interface {
	Signup(ctx context.Context, in SignupInput) (*SignupResult, error)
	VerifyEmail(ctx context.Context, token string) (*Session, error)
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Me(ctx context.Context, userID uuid.UUID) (*Profile, error)
}

type accountService struct {
	store      *repository.Store
	sites      SiteService
	billing    BillingService
	mailer     mail.Mailer
	jwt        *auth.JWTService
	tokens     auth.TokenStoreInterface
	appBaseURL string
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewAccountService creates a new account service.
func NewAccountService(
	store *repository.Store,
	sites SiteService,
	billing BillingService,
	mailer mail.Mailer,
	jwt *auth.JWTService,
	tokens auth.TokenStoreInterface,
	appBaseURL string,
	m *metrics.Metrics,
	logger *zap.Logger,
) AccountService {
	return &accountService{
		store:      store,
		sites:      sites,
		billing:    billing,
		mailer:     mailer,
		jwt:        jwt,
		tokens:     tokens,
		appBaseURL: strings.TrimRight(appBaseURL, "/"),
		metrics:    m,
		logger:     orNop(logger).Named("accounts"),
		now:        time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup creates an unverified free account with its default site and sends
// the verification email. A mail failure is logged, not returned; the user
// can ask for a new link.
func (s *accountService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	email := normalizeEmail(in.Email)

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(in.Name),
		Plan:         model.PlanFree,
	}
	if err := s.store.Users().Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: email already in use", apperrors.ErrConflict)
		}
		return nil, err
	}

	site, err := s.sites.Create(ctx, user.ID, settings.DefaultSiteName)
	if err != nil {
		if rbErr := s.discardSignup(context.WithoutCancel(ctx), user.ID); rbErr != nil {
			s.logger.Error("discard incomplete signup", zap.Error(rbErr), zap.String("user_id", user.ID.String()))
		}
		return nil, fmt.Errorf("create default site: %w", err)
	}

	sent := true
	if err := s.issueVerification(ctx, user); err != nil {
		sent = false
		s.logger.Error("send verification email", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.logger.Info("user signed up", zap.String("user_id", user.ID.String()))
	return &SignupResult{User: user, Site: site, RequiresEmailVerification: true, VerificationEmailSent: sent}, nil
}

// discardSignup removes a user whose default site could not be set up, along
// with any partially created site, so the email can sign up again.
func (s *accountService) discardSignup(ctx context.Context, userID uuid.UUID) error {
	return s.store.WithTx(ctx, func(tx *repository.Store) error {
		sites, err := tx.Sites().ListForUser(ctx, userID)
		if err != nil {
			return err
		}
		for _, site := range sites {
			if _, err := tx.Sites().DeleteCascade(ctx, site.ID); err != nil {
				return err
			}
		}
		return tx.Users().Delete(ctx, userID)
	})
}

// issueVerification stores the digest of a fresh token and mails the link.
func (s *accountService) issueVerification(ctx context.Context, user *model.User) error {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	token := hex.EncodeToString(raw)

	expiresAt := s.now().UTC().Add(VerificationTTL)
	if err := s.store.Users().SetVerificationToken(ctx, user.ID, hashToken(token), expiresAt); err != nil {
		return err
	}

	link := s.appBaseURL + "/studio/verify-email?token=" + token
	err := s.mailer.SendVerification(ctx, user.Email, user.Name, link)
	s.metrics.VerificationEmail(err)
	return err
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// VerifyEmail consumes a verification token and signs the user in.
func (s *accountService) VerifyEmail(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.store.Users().ConsumeVerificationToken(ctx, hashToken(token), s.now().UTC())
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("email verified", zap.String("user_id", user.ID.String()))
	return s.issueSession(user)
}

// ResendVerification never reveals whether an account exists.
func (s *accountService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.issueVerification(ctx, user)
}

// Login fails with the same error for unknown emails and wrong passwords.
// An unverified user gets a fresh verification email.
func (s *accountService) Login(ctx context.Context, email, password string) (*Session, error) {
	session, err := s.login(ctx, email, password)
	s.metrics.Login(string(auth.ScopeUser), err)
	return session, err
}

func (s *accountService) login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.store.Users().FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, apperrors.ErrNotFound) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if !user.EmailVerified {
		if err := s.issueVerification(ctx, user); err != nil {
			s.logger.Error("resend verification on login", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		return nil, apperrors.ErrEmailNotVerified
	}
	return s.issueSession(user)
}

func (s *accountService) issueSession(user *model.User) (*Session, error) {
	token, claims, err := s.jwt.Issue(user.ID, user.Email, auth.ScopeUser)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: claims.ExpiresAt.Time}, nil
}

// Logout revokes the presented token until it would have expired.
func (s *accountService) Logout(ctx context.Context, claims *auth.Claims) error {
	return revoke(ctx, s.tokens, claims, s.now())
}

func revoke(ctx context.Context, tokens auth.TokenStoreInterface, claims *auth.Claims, now time.Time) error {
	if claims == nil || claims.ExpiresAt == nil {
		return nil
	}
	return tokens.Revoke(ctx, claims.ID, claims.ExpiresAt.Time.Sub(now))
}

func (s *accountService) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.store.Users().FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	sites, err := s.sites.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.billing.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, Sites: sites, Billing: summary}, nil
}
