package service

import (
	"context"

	"chatshare-be/internal/metrics"
	"chatshare-be/internal/pkg/logger"
	"chatshare-be/internal/pkg/mailer"
	internalWS "chatshare-be/internal/websocket"
	"chatshare-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// FrameSender pushes a frame to a user's live connections.
type FrameSender interface {
	Send(ctx context.Context, userID uuid.UUID, frame internalWS.Frame) error
}

// EventForwarder hands events to an external bus.
type EventForwarder interface {
	Publish(ctx context.Context, event events.Event) error
}

// INotificationConsumer drains the domain event topic and fans each event out
// to websocket, email and the external bus. Delivery failures never block the
// topic: every message is acked.
type INotificationConsumer interface {
	Consume(ctx context.Context) error
}

type notificationConsumer struct {
	subscriber message.Subscriber
	topicName  string
	frames     FrameSender
	mail       mailer.IEmailService
	forwarder  EventForwarder
	logger     logger.ILogger
}

// NewNotificationConsumer accepts nil for any channel that is not configured.
func NewNotificationConsumer(
	subscriber message.Subscriber,
	topicName string,
	frames FrameSender,
	mail mailer.IEmailService,
	forwarder EventForwarder,
	log logger.ILogger,
) INotificationConsumer {
	return &notificationConsumer{
		subscriber: subscriber,
		topicName:  topicName,
		frames:     frames,
		mail:       mail,
		forwarder:  forwarder,
		logger:     log,
	}
}

func (c *notificationConsumer) Consume(ctx context.Context) error {
	messages, err := c.subscriber.Subscribe(ctx, c.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(ctx, msg)
		}
	}()

	c.logger.Info("NotificationConsumer", "Listening for domain events", map[string]interface{}{"topic": c.topicName})
	return nil
}

func (c *notificationConsumer) processMessage(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	evt, err := events.Decode(msg.Payload)
	if err != nil {
		c.logger.Error("NotificationConsumer", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		return
	}
	c.handle(ctx, evt)
}

func (c *notificationConsumer) handle(ctx context.Context, evt events.BaseEvent) {
	if c.frames != nil {
		if recipient, err := uuid.Parse(events.StringField(evt, events.KeyRecipientID)); err == nil {
			err := c.frames.Send(ctx, recipient, internalWS.Frame{Type: evt.Type, Data: evt.Data})
			c.outcome("websocket", evt, err)
		}
	}

	if evt.Type == events.CollaborationInvited && c.mail != nil {
		if email := events.StringField(evt, events.KeyEmail); email != "" {
			err := c.mail.SendCollaborationInvite(
				email,
				events.StringField(evt, events.KeyActorName),
				events.StringField(evt, events.KeyChatTitle),
			)
			c.outcome("email", evt, err)
		}
	}

	if c.forwarder != nil {
		c.outcome("nats", evt, c.forwarder.Publish(ctx, evt))
	}
}

func (c *notificationConsumer) outcome(channel string, evt events.BaseEvent, err error) {
	if err != nil {
		metrics.Global().EventsDelivered.WithLabelValues(channel, "error").Inc()
		c.logger.Warn("NotificationConsumer", "Event delivery failed", map[string]interface{}{
			"channel": channel,
			"type":    evt.Type,
			"error":   err.Error(),
		})
		return
	}
	metrics.Global().EventsDelivered.WithLabelValues(channel, "ok").Inc()
	c.logger.Debug("NotificationConsumer", "Event delivered", map[string]interface{}{
		"channel": channel,
		"type":    evt.Type,
	})
}
