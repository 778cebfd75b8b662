package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	internalWS "chatshare-be/internal/websocket"
	"chatshare-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTopic = "chatshare.events"

type sentFrame struct {
	userID uuid.UUID
	frame  internalWS.Frame
}

type recordingSender struct {
	mu     sync.Mutex
	frames []sentFrame
	err    error
}

func (s *recordingSender) Send(ctx context.Context, userID uuid.UUID, frame internalWS.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, sentFrame{userID: userID, frame: frame})
	return s.err
}

func (s *recordingSender) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.frames)
}

type recordingMailer struct {
	mu      sync.Mutex
	invites []string
}

func (m *recordingMailer) SendCollaborationInvite(toEmail, inviterName, chatTitle string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.invites = append(m.invites, toEmail+"|"+inviterName+"|"+chatTitle)
	return nil
}

func (m *recordingMailer) snapshot() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.invites...)
}

type recordingForwarder struct {
	mu    sync.Mutex
	types []string
}

func (f *recordingForwarder) Publish(ctx context.Context, event events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.types = append(f.types, event.EventType())
	return nil
}

func (f *recordingForwarder) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.types...)
}

func newPubSub(t *testing.T) *gochannel.GoChannel {
	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 16}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })
	return pubSub
}

func TestNotificationConsumer_FansOut(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := newPubSub(t)
	sender := &recordingSender{}
	mail := &recordingMailer{}
	forwarder := &recordingForwarder{}

	consumer := NewNotificationConsumer(pubSub, testTopic, sender, mail, forwarder, nopLogger())
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService(pubSub, testTopic, nopLogger())
	recipient := uuid.New()
	chatId := uuid.New()

	require.NoError(t, publisher.Publish(ctx, events.CollaborationEvent{
		Type:          events.CollaborationInvited,
		ChatId:        chatId,
		ChatTitle:     "Trip planning",
		ActorId:       uuid.New(),
		ActorUsername: "owner",
		RecipientId:   recipient,
		Email:         "alice@example.com",
		AccessLevel:   "edit",
	}))
	require.NoError(t, publisher.Publish(ctx, events.CollaborationEvent{
		Type:        events.CollaborationApproved,
		ChatId:      chatId,
		ActorId:     recipient,
		RecipientId: uuid.New(),
	}))

	require.Eventually(t, func() bool { return len(forwarder.snapshot()) == 2 }, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, []string{events.CollaborationInvited, events.CollaborationApproved}, forwarder.snapshot())
	assert.Equal(t, []string{"alice@example.com|owner|Trip planning"}, mail.snapshot())

	require.Equal(t, 2, sender.count())
	first := sender.frames[0]
	assert.Equal(t, recipient, first.userID)
	assert.Equal(t, events.CollaborationInvited, first.frame.Type)
	assert.Equal(t, chatId.String(), first.frame.Data[events.KeyChatID])
}

func TestNotificationConsumer_AcksFailures(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pubSub := newPubSub(t)
	sender := &recordingSender{err: errors.New("no connection")}
	forwarder := &recordingForwarder{}

	consumer := NewNotificationConsumer(pubSub, testTopic, sender, nil, forwarder, nopLogger())
	require.NoError(t, consumer.Consume(ctx))

	// Garbage on the topic is dropped and does not stall later events.
	require.NoError(t, pubSub.Publish(testTopic, message.NewMessage(watermill.NewUUID(), []byte("not json"))))

	publisher := NewPublisherService(pubSub, testTopic, nopLogger())
	require.NoError(t, publisher.Publish(ctx, events.CollaborationEvent{
		Type:        events.ChatDeleted,
		ChatId:      uuid.New(),
		RecipientId: uuid.New(),
	}))

	require.Eventually(t, func() bool { return len(forwarder.snapshot()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, sender.count())
}

func TestNotificationConsumer_SkipsMissingRecipient(t *testing.T) {
	sender := &recordingSender{}
	c := &notificationConsumer{frames: sender, logger: nopLogger()}

	c.handle(context.Background(), events.BaseEvent{
		Type: events.ChatDeleted,
		Data: map[string]interface{}{events.KeyChatID: uuid.NewString()},
	})
	assert.Zero(t, sender.count())
}
