package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/MohammadTashkandi/task-manager-app/internal/avatar"
	"github.com/MohammadTashkandi/task-manager-app/internal/events"
	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
)

// UpdateUserDTO carries the profile fields a user may change. Nil means the
// field was not supplied and keeps its current value.
type UpdateUserDTO struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, updates UpdateUserDTO) (*model.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) (*model.User, error)
	UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error
	DeleteAvatar(ctx context.Context, userID uuid.UUID) error
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type userService struct {
	userRepo    repository.UserRepository
	avatarStore avatar.Store
	publisher   events.EventPublisher
}

func NewUserService(userRepo repository.UserRepository, avatarStore avatar.Store, publisher events.EventPublisher) UserService {
	return &userService{
		userRepo:    userRepo,
		avatarStore: avatarStore,
		publisher:   publisher,
	}
}

// UpdateProfile applies the supplied fields and re-runs the full set of
// schema validations before saving. A changed password is re-hashed; an
// unchanged one keeps its existing hash untouched.
func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, updates UpdateUserDTO) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if updates.Name != nil {
		user.Name = strings.TrimSpace(*updates.Name)
	}
	if updates.Email != nil {
		user.Email = normalizeEmail(*updates.Email)
	}
	if updates.Age != nil {
		user.Age = *updates.Age
	}

	if err := validateName(user.Name); err != nil {
		return nil, err
	}
	if err := validateEmail(user.Email); err != nil {
		return nil, err
	}
	if err := validateAge(user.Age); err != nil {
		return nil, err
	}

	if updates.Password != nil {
		if err := validatePassword(*updates.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*updates.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hashed)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteAccount removes the user and, transactionally with it, every task
// they own. The cancellation notification is fire-and-forget.
func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return nil, err
	}

	go func() {
		if err := s.publisher.PublishUserDeleted(user); err != nil {
			slog.Error("Failed to publish user.deleted event", "user_id", user.ID, "error", err)
		}
	}()

	return user, nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error {
	if !avatar.AllowedExtension(filename) {
		return fmt.Errorf("%w: please provide an image with one of the following extensions: jpg, jpeg, png", ErrValidation)
	}
	if len(data) > avatar.MaxUploadBytes {
		return fmt.Errorf("%w: image must not exceed %d bytes", ErrValidation, avatar.MaxUploadBytes)
	}

	processed, err := avatar.Process(data)
	if err != nil {
		return fmt.Errorf("%w: could not decode image", ErrValidation)
	}

	return s.avatarStore.Put(ctx, userID, processed)
}

func (s *userService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.avatarStore.Delete(ctx, userID)
}

func (s *userService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.avatarStore.Get(ctx, userID)
}
