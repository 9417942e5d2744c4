package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"yourrest-api/models"
	"yourrest-api/repository"
)

const verificationTTL = 24 * time.Hour

// Mailer delivers the verification link to a new account.
type Mailer interface {
	SendVerification(ctx context.Context, user *models.User, link string) error
}

// LogMailer writes verification links to the application log.
type LogMailer struct{}

func (LogMailer) SendVerification(_ context.Context, user *models.User, link string) error {
	log.WithFields(log.Fields{"user_id": user.ID, "email": user.Email, "link": link}).Info("verification email")
	return nil
}

type RegisterInput struct {
	DisplayName string `json:"displayName" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
}

type AuthService struct {
	users         repository.UserRepository
	tokens        *TokenManager
	mailer        Mailer
	adminEmail    string
	publicBaseURL string
}

func NewAuthService(users repository.UserRepository, tokens *TokenManager, mailer Mailer, adminEmail, publicBaseURL string) *AuthService {
	return &AuthService{
		users:         users,
		tokens:        tokens,
		mailer:        mailer,
		adminEmail:    strings.ToLower(strings.TrimSpace(adminEmail)),
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// CreateAccount stores a new user record and returns a session token for it.
func (s *AuthService) CreateAccount(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	in.DisplayName = strings.TrimSpace(in.DisplayName)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validateInput(in); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	role := models.RoleUser
	if s.adminEmail != "" && in.Email == s.adminEmail {
		role = models.RoleAdmin
		log.WithField("email", in.Email).Info("registering initial admin")
	}

	user := &models.User{
		DisplayName:          in.DisplayName,
		Email:                in.Email,
		PasswordHash:         string(hash),
		Role:                 role,
		NotificationsEnabled: true,
		CreatedAt:            time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.sendVerification(ctx, user); err != nil {
		log.WithError(err).WithField("user_id", user.ID).Warn("verification email not sent")
	}

	token, err := s.tokens.Issue(user, PurposeSession, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

func (s *AuthService) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user, PurposeSession, 0)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}
	return user, token, nil
}

// Authenticate resolves a bearer token into the caller's claims.
func (s *AuthService) Authenticate(_ context.Context, token string) (*Claims, error) {
	return s.tokens.Parse(token, PurposeSession)
}

// CurrentUser loads the record behind a session. The record may be absent.
func (s *AuthService) CurrentUser(ctx context.Context, caller *Claims) (*models.User, error) {
	user, err := s.users.Get(ctx, caller.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}
	return user, nil
}

func (s *AuthService) SignOut(_ context.Context, caller *Claims) error {
	return s.tokens.Revoke(caller)
}

func (s *AuthService) SendVerificationEmail(ctx context.Context, caller *Claims) error {
	user, err := s.CurrentUser(ctx, caller)
	if err != nil {
		return err
	}
	if user.EmailVerified {
		return nil
	}
	return s.sendVerification(ctx, user)
}

func (s *AuthService) sendVerification(ctx context.Context, user *models.User) error {
	token, err := s.tokens.Issue(user, PurposeVerify, verificationTTL)
	if err != nil {
		return fmt.Errorf("failed to generate verification token: %w", err)
	}
	link := s.publicBaseURL + "/api/auth/verify?token=" + url.QueryEscape(token)
	return s.mailer.SendVerification(ctx, user, link)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Parse(token, PurposeVerify)
	if err != nil {
		return err
	}
	if err := s.users.MarkEmailVerified(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to verify email: %w", err)
	}
	return s.tokens.Revoke(claims)
}
