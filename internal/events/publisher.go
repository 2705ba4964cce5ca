package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/MohammadTashkandi/task-manager-app/internal/model"
)

const (
	SubjectUserRegistered = "user.registered"
	SubjectUserDeleted    = "user.deleted"
)

// EventPublisher announces account lifecycle changes. Publishing is
// best-effort: a lost event never fails the request that caused it.
type EventPublisher interface {
	PublishUserRegistered(user *model.User) error
	PublishUserDeleted(user *model.User) error
}

type UserRegisteredEvent struct {
	EventType    string    `json:"event_type"`
	UserID       uuid.UUID `json:"user_id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	RegisteredAt time.Time `json:"registered_at"`
}

type UserDeletedEvent struct {
	EventType string    `json:"event_type"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	DeletedAt time.Time `json:"deleted_at"`
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (EventPublisher, error) {
	nc, err := nats.Connect(natsURL)

	if err != nil {
		return nil, err
	}

	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) PublishUserRegistered(user *model.User) error {
	event := UserRegisteredEvent{
		EventType:    SubjectUserRegistered,
		UserID:       user.ID,
		Email:        user.Email,
		Name:         user.Name,
		RegisteredAt: time.Now(),
	}

	return p.publish(SubjectUserRegistered, event)
}

func (p *NatsPublisher) PublishUserDeleted(user *model.User) error {
	event := UserDeletedEvent{
		EventType: SubjectUserDeleted,
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		DeletedAt: time.Now(),
	}

	return p.publish(SubjectUserDeleted, event)
}

func (p *NatsPublisher) publish(subject string, event interface{}) error {
	eventJSON, err := json.Marshal(event)

	if err != nil {
		slog.Error("Error marshalling event JSON", "subject", subject, "error", err)
		return err
	}

	if err := p.conn.Publish(subject, eventJSON); err != nil {
		slog.Error("Error publishing to NATS", "subject", subject, "error", err)
		return err
	}

	slog.Info("Published event to NATS", "subject", subject)

	return nil
}

// NoopPublisher is used when the event bus is unreachable at startup; account
// operations still work, notifications are simply skipped.
type NoopPublisher struct{}

func (NoopPublisher) PublishUserRegistered(user *model.User) error { return nil }
func (NoopPublisher) PublishUserDeleted(user *model.User) error    { return nil }
