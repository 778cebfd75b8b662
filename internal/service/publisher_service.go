package service

import (
	"context"

	"chatshare-be/internal/pkg/logger"
	"chatshare-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// IPublisherService puts domain events on the in-process bus.
type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

type publisherService struct {
	publisher message.Publisher
	topic     string
	logger    logger.ILogger
}

func NewPublisherService(publisher message.Publisher, topic string, log logger.ILogger) IPublisherService {
	return &publisherService{
		publisher: publisher,
		topic:     topic,
		logger:    log,
	}
}

func (s *publisherService) Publish(ctx context.Context, event events.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.SetContext(ctx)
	msg.Metadata.Set("type", event.EventType())

	if err := s.publisher.Publish(s.topic, msg); err != nil {
		return err
	}
	s.logger.Debug("PublisherService", "Event published", map[string]interface{}{
		"type":  event.EventType(),
		"topic": s.topic,
	})
	return nil
}

// publishAll publishes after a commit. A failed publish is logged and never
// undoes the committed change.
func publishAll(ctx context.Context, publisher IPublisherService, log logger.ILogger, module string, evts []events.Event) {
	if publisher == nil {
		return
	}
	for _, evt := range evts {
		if err := publisher.Publish(ctx, evt); err != nil {
			log.Warn(module, "Failed to publish event", map[string]interface{}{
				"type":  evt.EventType(),
				"error": err.Error(),
			})
		}
	}
}
