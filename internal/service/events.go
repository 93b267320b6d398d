package service

import (
	"context"
	"time"

	"github.com/Skotchmaster/rbac_api/internal/events"
	"github.com/Skotchmaster/rbac_api/internal/logging"
	"github.com/Skotchmaster/rbac_api/internal/models"
)

const DefaultEventsTopic = "user_events"

// Notifier publishes user lifecycle events. Failures are logged only.
type Notifier struct {
	Publisher events.Publisher
	Topic     string
}

func (n Notifier) userEvent(ctx context.Context, typ string, u *models.User) {
	if n.Publisher == nil || u == nil {
		return
	}
	topic := n.Topic
	if topic == "" {
		topic = DefaultEventsTopic
	}

	ev := events.UserEvent{
		Type:     typ,
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		At:       time.Now().UTC(),
	}
	if err := n.Publisher.PublishEvent(ctx, topic, ev.Key(), ev); err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "type", typ, "topic", topic, "error", err)
	}
}
