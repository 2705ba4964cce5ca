package api

import (
	"encoding/json"
	"errors"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/MohammadTashkandi/task-manager-app/internal/avatar"
	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/service"
)

type UserHandler struct {
	authService service.AuthService
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(authService service.AuthService, userService service.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// UserResponse is the outward representation of a user. Password hash,
// session tokens and avatar bytes never appear here.
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func sanitizeUser(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Age:       user.Age,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
	Age      int    `json:"age" validate:"omitempty,gte=0"`
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var request RegisterRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON", "details": err.Error()})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user, token, err := h.authService.Register(c.Context(), service.RegisterInput{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Age:      request.Age,
	})

	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already in use"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  sanitizeUser(user),
		"token": token,
	})
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var request LoginRequest

	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user, token, err := h.authService.Login(c.Context(), request.Email, request.Password)

	if err != nil {
		if errors.Is(err, service.ErrUnableToLogin) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not login"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"user":  sanitizeUser(user),
		"token": token,
	})
}

// Logout revokes only the session token that made this request; other
// sessions for the same user stay valid.
func (h *UserHandler) Logout(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	token, err := TokenFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.authService.Logout(c.Context(), user.ID, token); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not logout"})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) LogoutAll(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.authService.LogoutAll(c.Context(), user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not logout"})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusOK).JSON(sanitizeUser(user))
}

type UpdateProfileRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

var allowedProfileFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

// UpdateProfile enforces a strict field allow-list: any key outside
// {name, email, password, age} rejects the whole request.
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	for field := range raw {
		if !allowedProfileFields[field] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid update field: " + field})
		}
	}

	var request UpdateProfileRequest
	if err := c.BodyParser(&request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	updated, err := h.userService.UpdateProfile(c.Context(), user.ID, service.UpdateUserDTO{
		Name:     request.Name,
		Email:    request.Email,
		Password: request.Password,
		Age:      request.Age,
	})

	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already in use"})
		}

		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update profile"})
	}

	return c.Status(fiber.StatusOK).JSON(sanitizeUser(updated))
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	deleted, err := h.userService.DeleteAccount(c.Context(), user.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete account"})
	}

	return c.Status(fiber.StatusOK).JSON(sanitizeUser(deleted))
}

func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "An avatar file is required"})
	}

	if fileHeader.Size > avatar.MaxUploadBytes {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Image is too large"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not read uploaded file"})
	}

	if err := h.userService.UploadAvatar(c.Context(), user.ID, fileHeader.Filename, data); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not store avatar"})
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) DeleteAvatar(c *fiber.Ctx) error {
	user, err := UserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}

	if err := h.userService.DeleteAvatar(c.Context(), user.ID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not delete avatar"})
	}

	return c.SendStatus(fiber.StatusOK)
}

// GetAvatar serves any user's avatar by id. Missing user and missing avatar
// are both a plain 404.
func (h *UserHandler) GetAvatar(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	data, err := h.userService.GetAvatar(c.Context(), userID)
	if err != nil {
		if errors.Is(err, avatar.ErrNoAvatar) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not fetch avatar"})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Send(data)
}
