package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohammadTashkandi/task-manager-app/internal/events"
	"github.com/MohammadTashkandi/task-manager-app/internal/jwt"
	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
)

var (
	// ErrUnableToLogin is deliberately the same for an unknown email and a
	// wrong password, so callers cannot probe which accounts exist.
	ErrUnableToLogin = errors.New("unable to login")

	ErrTokenInvalid = errors.New("token is invalid or revoked")
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Logout(ctx context.Context, userID uuid.UUID, token string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	publisher events.EventPublisher
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, publisher events.EventPublisher) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		publisher: publisher,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)

	if err := validateName(input.Name); err != nil {
		return nil, "", err
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, "", err
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, "", err
	}
	if err := validateAge(input.Age); err != nil {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		Age:          input.Age,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		return nil, "", err
	}
	user.ID = newID

	go func() {
		if err := s.publisher.PublishUserRegistered(user); err != nil {
			slog.Error("Failed to publish user.registered event", "user_id", user.ID, "error", err)
		}
	}()

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", ErrUnableToLogin
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrUnableToLogin
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// issueToken signs a fresh session token and records it in the user's active
// set. Sessions accumulate; nothing here invalidates earlier tokens.
func (s *authService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := jwt.GenerateToken(userID)
	if err != nil {
		return "", err
	}

	if err := s.tokenRepo.Create(ctx, userID, token); err != nil {
		return "", err
	}

	return token, nil
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	return s.tokenRepo.Delete(ctx, userID, token)
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteAllForUser(ctx, userID)
}

// Authenticate resolves a bearer token to its user. A signature-valid token
// that has been revoked (no longer in the stored session set) is rejected.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := jwt.ParseUserID(token)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	active, err := s.tokenRepo.Exists(ctx, userID, token)
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	return user, nil
}
