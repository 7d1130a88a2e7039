package notify

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tone classifies how a notification should be rendered to the customer.
type Tone string

const (
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneError   Tone = "error"
)

type Notification struct {
	ID    string    `json:"id"`
	Tone  Tone      `json:"tone"`
	Title string    `json:"title"`
	Body  string    `json:"body,omitempty"`
	At    time.Time `json:"at"`
}

// Notifier delivers user-visible notifications. Implementations must be safe
// for use from timer and channel callbacks.
type Notifier interface {
	Notify(n Notification)
}

// Push builds a Notification with a fresh id and hands it to the notifier.
func Push(n Notifier, tone Tone, title, body string) {
	n.Notify(Notification{
		ID:    uuid.NewString(),
		Tone:  tone,
		Title: title,
		Body:  body,
		At:    time.Now(),
	})
}

// logNotifier writes notifications to the structured log. It stands in for a
// UI toast surface when the core runs headless.
type logNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) Notifier {
	return &logNotifier{log: log}
}

func (l *logNotifier) Notify(n Notification) {
	fields := []zap.Field{
		zap.String("notification_id", n.ID),
		zap.String("tone", string(n.Tone)),
		zap.String("body", n.Body),
	}

	switch n.Tone {
	case ToneError:
		l.log.Error(n.Title, fields...)
	case ToneWarning:
		l.log.Warn(n.Title, fields...)
	default:
		l.log.Info(n.Title, fields...)
	}
}
