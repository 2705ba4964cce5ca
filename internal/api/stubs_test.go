package api_test

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/MohammadTashkandi/task-manager-app/internal/api"
	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/repository"
	"github.com/MohammadTashkandi/task-manager-app/internal/service"
)

// Stub services for handler tests; any method without a configured func
// fails loudly so tests only exercise the paths they wire up.

var errStubNotConfigured = errors.New("stub method not configured")

type stubAuthService struct {
	registerFn     func(ctx context.Context, input service.RegisterInput) (*model.User, string, error)
	loginFn        func(ctx context.Context, email, password string) (*model.User, string, error)
	logoutFn       func(ctx context.Context, userID uuid.UUID, token string) error
	logoutAllFn    func(ctx context.Context, userID uuid.UUID) error
	authenticateFn func(ctx context.Context, token string) (*model.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, input service.RegisterInput) (*model.User, string, error) {
	if s.registerFn == nil {
		return nil, "", errStubNotConfigured
	}
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if s.loginFn == nil {
		return nil, "", errStubNotConfigured
	}
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Logout(ctx context.Context, userID uuid.UUID, token string) error {
	if s.logoutFn == nil {
		return errStubNotConfigured
	}
	return s.logoutFn(ctx, userID, token)
}

func (s *stubAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if s.logoutAllFn == nil {
		return errStubNotConfigured
	}
	return s.logoutAllFn(ctx, userID)
}

func (s *stubAuthService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if s.authenticateFn == nil {
		return nil, errStubNotConfigured
	}
	return s.authenticateFn(ctx, token)
}

type stubUserService struct {
	updateProfileFn func(ctx context.Context, userID uuid.UUID, updates service.UpdateUserDTO) (*model.User, error)
	deleteAccountFn func(ctx context.Context, userID uuid.UUID) (*model.User, error)
	uploadAvatarFn  func(ctx context.Context, userID uuid.UUID, filename string, data []byte) error
	deleteAvatarFn  func(ctx context.Context, userID uuid.UUID) error
	getAvatarFn     func(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

func (s *stubUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, updates service.UpdateUserDTO) (*model.User, error) {
	if s.updateProfileFn == nil {
		return nil, errStubNotConfigured
	}
	return s.updateProfileFn(ctx, userID, updates)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	if s.deleteAccountFn == nil {
		return nil, errStubNotConfigured
	}
	return s.deleteAccountFn(ctx, userID)
}

func (s *stubUserService) UploadAvatar(ctx context.Context, userID uuid.UUID, filename string, data []byte) error {
	if s.uploadAvatarFn == nil {
		return errStubNotConfigured
	}
	return s.uploadAvatarFn(ctx, userID, filename, data)
}

func (s *stubUserService) DeleteAvatar(ctx context.Context, userID uuid.UUID) error {
	if s.deleteAvatarFn == nil {
		return errStubNotConfigured
	}
	return s.deleteAvatarFn(ctx, userID)
}

func (s *stubUserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if s.getAvatarFn == nil {
		return nil, errStubNotConfigured
	}
	return s.getAvatarFn(ctx, userID)
}

type stubTaskService struct {
	createTaskFn func(ctx context.Context, owner uuid.UUID, description string, completed bool) (*model.Task, error)
	listTasksFn  func(ctx context.Context, owner uuid.UUID, filter repository.TaskFilter) ([]model.Task, error)
	getTaskFn    func(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
	updateTaskFn func(ctx context.Context, id, owner uuid.UUID, updates service.UpdateTaskDTO) (*model.Task, error)
	deleteTaskFn func(ctx context.Context, id, owner uuid.UUID) (*model.Task, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, owner uuid.UUID, description string, completed bool) (*model.Task, error) {
	if s.createTaskFn == nil {
		return nil, errStubNotConfigured
	}
	return s.createTaskFn(ctx, owner, description, completed)
}

func (s *stubTaskService) ListTasks(ctx context.Context, owner uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	if s.listTasksFn == nil {
		return nil, errStubNotConfigured
	}
	return s.listTasksFn(ctx, owner, filter)
}

func (s *stubTaskService) GetTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	if s.getTaskFn == nil {
		return nil, errStubNotConfigured
	}
	return s.getTaskFn(ctx, id, owner)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, id, owner uuid.UUID, updates service.UpdateTaskDTO) (*model.Task, error) {
	if s.updateTaskFn == nil {
		return nil, errStubNotConfigured
	}
	return s.updateTaskFn(ctx, id, owner, updates)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, id, owner uuid.UUID) (*model.Task, error) {
	if s.deleteTaskFn == nil {
		return nil, errStubNotConfigured
	}
	return s.deleteTaskFn(ctx, id, owner)
}

// authenticatedAs wires the auth middleware to accept any bearer token as
// the given user, mirroring how the real middleware stores the identity.
func authenticatedAs(user *model.User) *stubAuthService {
	return &stubAuthService{
		authenticateFn: func(ctx context.Context, token string) (*model.User, error) {
			return user, nil
		},
	}
}

func newTestApp(authSvc service.AuthService, userSvc service.UserService, taskSvc service.TaskService) *fiber.App {
	app := fiber.New()

	userHandler := api.NewUserHandler(authSvc, userSvc)
	taskHandler := api.NewTaskHandler(taskSvc)
	authMiddleware := api.AuthMiddleware(authSvc)

	app.Post("/users", userHandler.Register)
	app.Post("/users/login", userHandler.Login)
	app.Post("/users/logout", authMiddleware, userHandler.Logout)
	app.Post("/users/logoutAll", authMiddleware, userHandler.LogoutAll)
	app.Get("/users/me", authMiddleware, userHandler.GetProfile)
	app.Patch("/users/me", authMiddleware, userHandler.UpdateProfile)
	app.Delete("/users/me", authMiddleware, userHandler.DeleteAccount)
	app.Post("/users/me/avatar", authMiddleware, userHandler.UploadAvatar)
	app.Delete("/users/me/avatar", authMiddleware, userHandler.DeleteAvatar)
	app.Get("/users/:id/avatar", authMiddleware, userHandler.GetAvatar)

	app.Post("/tasks", authMiddleware, taskHandler.Create)
	app.Get("/tasks", authMiddleware, taskHandler.List)
	app.Get("/tasks/:id", authMiddleware, taskHandler.Get)
	app.Patch("/tasks/:id", authMiddleware, taskHandler.Update)
	app.Delete("/tasks/:id", authMiddleware, taskHandler.Delete)

	return app
}
