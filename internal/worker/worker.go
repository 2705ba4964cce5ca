package worker

import (
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/MohammadTashkandi/task-manager-app/internal/events"
	"github.com/MohammadTashkandi/task-manager-app/internal/notify"
)

// Worker consumes account lifecycle events and sends the matching emails.
// Every failure here is logged and swallowed; the API never waits on us.
type Worker struct {
	natsConn *nats.Conn
	mailer   notify.Mailer
}

func (w *Worker) handleUserRegistered(msg *nats.Msg) {
	var event events.UserRegisteredEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Error unmarshalling user.registered event", "error", err)
		return
	}

	slog.Info("Event received", "event_type", event.EventType, "user_id", event.UserID)

	if err := w.mailer.SendWelcomeEmail(event.Email, event.Name); err != nil {
		slog.Error("Failed to send welcome email", "user_id", event.UserID, "error", err)
		return
	}

	slog.Info("Welcome email sent", "user_id", event.UserID)
}

func (w *Worker) handleUserDeleted(msg *nats.Msg) {
	var event events.UserDeletedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		slog.Error("Error unmarshalling user.deleted event", "error", err)
		return
	}

	slog.Info("Event received", "event_type", event.EventType, "user_id", event.UserID)

	if err := w.mailer.SendCancellationEmail(event.Email, event.Name); err != nil {
		slog.Error("Failed to send cancellation email", "user_id", event.UserID, "error", err)
		return
	}

	slog.Info("Cancellation email sent", "user_id", event.UserID)
}

func Start(natsURL string, mailer notify.Mailer) (*Worker, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, err
	}

	w := &Worker{
		natsConn: nc,
		mailer:   mailer,
	}

	if _, err := nc.Subscribe(events.SubjectUserRegistered, w.handleUserRegistered); err != nil {
		return nil, err
	}
	if _, err := nc.Subscribe(events.SubjectUserDeleted, w.handleUserDeleted); err != nil {
		return nil, err
	}

	return w, nil
}

func (w *Worker) Close() {
	w.natsConn.Drain()
}
