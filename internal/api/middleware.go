package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MohammadTashkandi/task-manager-app/internal/model"
	"github.com/MohammadTashkandi/task-manager-app/internal/service"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of http request",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)
)

const (
	localsUserKey  = "authUser"
	localsTokenKey = "authToken"
)

// AuthMiddleware resolves the bearer token to a user and stashes both on the
// request. The raw token is kept so single-session logout can revoke exactly
// the session that made the request.
func AuthMiddleware(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing authorization header"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid authorization header format"})
		}
		tokenString := parts[1]

		user, err := authService.Authenticate(c.Context(), tokenString)
		if err != nil {
			if errors.Is(err, service.ErrTokenInvalid) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Please authenticate"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not authenticate request"})
		}

		c.Locals(localsUserKey, user)
		c.Locals(localsTokenKey, tokenString)

		return c.Next()
	}
}

func UserFromContext(c *fiber.Ctx) (*model.User, error) {
	user, ok := c.Locals(localsUserKey).(*model.User)
	if !ok {
		return nil, errors.New("user not found in request context")
	}
	return user, nil
}

func TokenFromContext(c *fiber.Ctx) (string, error) {
	token, ok := c.Locals(localsTokenKey).(string)
	if !ok {
		return "", errors.New("token not found in request context")
	}
	return token, nil
}

func PrometheusMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		duration := time.Since(start).Seconds()
		statusCode := c.Response().StatusCode()

		if err != nil {
			var e *fiber.Error

			if errors.As(err, &e) {
				statusCode = e.Code
			} else {
				statusCode = fiber.StatusInternalServerError
			}
		}

		method := c.Method()
		path := c.Path()
		statusStr := fmt.Sprintf("%d", statusCode)

		httpRequestTotal.WithLabelValues(method, path, statusStr).Inc()
		httpRequestDuration.WithLabelValues(method, path, statusStr).Observe(duration)

		return err
	}
}
