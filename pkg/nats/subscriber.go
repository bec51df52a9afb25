package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"ncip-portal/pkg/events"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// EventHandler returning an error naks the message for redelivery.
type EventHandler func(ctx context.Context, event events.Event) error

// Subscriber runs durable JetStream consumers on the EVENTS stream.
type Subscriber struct {
	nc *nats.Conn
	js jetstream.JetStream

	mu       sync.Mutex
	running  []jetstream.ConsumeContext
	handlers sync.WaitGroup
}

func NewSubscriber(url string) (*Subscriber, error) {
	nc, js, err := connect(url)
	if err != nil {
		return nil, err
	}
	return &Subscriber{nc: nc, js: js}, nil
}

// Subscribe attaches handler to subject under a durable consumer name so a
// restart resumes where the last run acked.
func (s *Subscriber) Subscribe(ctx context.Context, subject, durableName string, handler EventHandler) error {
	consumer, err := s.js.CreateOrUpdateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		Durable:       durableName,
		FilterSubject: subject,
		AckPolicy:     jetstream.AckExplicitPolicy,
		MaxDeliver:    5,
	})
	if err != nil {
		return fmt.Errorf("failed to create consumer %s: %w", durableName, err)
	}

	cc, err := consumer.Consume(func(msg jetstream.Msg) {
		s.handlers.Add(1)
		defer s.handlers.Done()

		var env envelope
		if err := json.Unmarshal(msg.Data(), &env); err != nil {
			// A malformed message will never parse; drop it.
			_ = msg.Term()
			return
		}
		if env.Type == "" {
			env.Type = strings.TrimPrefix(msg.Subject(), subjectPrefix)
		}

		event := events.BaseEvent{Type: env.Type, Data: env.Data, OccurredAt: env.OccurredAt}
		if err := handler(ctx, event); err != nil {
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return fmt.Errorf("failed to start consuming %s: %w", subject, err)
	}

	s.mu.Lock()
	s.running = append(s.running, cc)
	s.mu.Unlock()
	return nil
}

// Close stops all consumers, waits for in-flight handlers, and closes the
// connection.
func (s *Subscriber) Close() {
	s.mu.Lock()
	for _, cc := range s.running {
		cc.Stop()
	}
	s.running = nil
	s.mu.Unlock()

	s.handlers.Wait()
	if s.nc != nil {
		s.nc.Close()
	}
}
