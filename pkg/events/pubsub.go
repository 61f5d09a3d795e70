package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/rs/zerolog"
)

// PubsubLoggerConfig holds configuration for the Pub/Sub event logger.
type PubsubLoggerConfig struct {
	ProjectID string
	TopicID   string
	// BatchSize and BatchDelay map onto the client's CountThreshold and
	// DelayThreshold publish settings.
	BatchSize  int
	BatchDelay time.Duration
	// TopicExistsTimeout bounds the startup existence check.
	TopicExistsTimeout time.Duration
	// PublishConfirmationTimeout bounds how long a publish result is awaited
	// before the event is abandoned with a logged error.
	PublishConfirmationTimeout time.Duration
}

// NewPubsubLoggerDefaults provides a config with sensible defaults.
func NewPubsubLoggerDefaults() *PubsubLoggerConfig {
	return &PubsubLoggerConfig{
		BatchSize:                  100,
		BatchDelay:                 100 * time.Millisecond,
		TopicExistsTimeout:         15 * time.Second,
		PublishConfirmationTimeout: 20 * time.Second,
	}
}

// PubsubLogger publishes events to a Google Cloud Pub/Sub topic, leaning on
// the client's built-in batching. Delivery failures are logged and dropped;
// analytics never block or fail a service call.
type PubsubLogger struct {
	topic                      *pubsub.Topic
	logger                     zerolog.Logger
	wg                         sync.WaitGroup
	publishConfirmationTimeout time.Duration
}

// NewPubsubLogger creates a PubsubLogger, validating the topic's existence
// before returning.
func NewPubsubLogger(
	ctx context.Context,
	cfg *PubsubLoggerConfig,
	client *pubsub.Client,
	logger zerolog.Logger,
) (*PubsubLogger, error) {
	if client == nil {
		return nil, fmt.Errorf("pubsub client cannot be nil")
	}

	topic := client.Topic(cfg.TopicID)
	topic.PublishSettings.DelayThreshold = cfg.BatchDelay
	topic.PublishSettings.CountThreshold = cfg.BatchSize

	existsCtx, cancel := context.WithTimeout(ctx, cfg.TopicExistsTimeout)
	defer cancel()
	exists, err := topic.Exists(existsCtx)
	if err != nil {
		return nil, fmt.Errorf("failed to check for topic %s: %w", cfg.TopicID, err)
	}
	if !exists {
		return nil, fmt.Errorf("pubsub topic %s does not exist", cfg.TopicID)
	}

	logger.Info().Str("topic_id", cfg.TopicID).Msg("PubsubLogger initialized successfully.")
	return &PubsubLogger{
		topic:                      topic,
		logger:                     logger.With().Str("component", "PubsubLogger").Str("topic_id", cfg.TopicID).Logger(),
		publishConfirmationTimeout: cfg.PublishConfirmationTimeout,
	}, nil
}

// Log publishes the event. The caller is never blocked on delivery; the
// publish result is awaited in the background and failures are only logged.
func (l *PubsubLogger) Log(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		l.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to marshal event for publishing.")
		return
	}

	result := l.topic.Publish(context.Background(), &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"event_kind": string(event.Kind),
		},
	})

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		confirmCtx, cancel := context.WithTimeout(context.Background(), l.publishConfirmationTimeout)
		defer cancel()
		if _, err := result.Get(confirmCtx); err != nil {
			l.logger.Error().Err(err).Str("event_id", event.ID).Msg("Failed to publish event.")
		}
	}()
}

// Stop flushes pending publishes and waits for confirmations, respecting the
// context's deadline.
func (l *PubsubLogger) Stop(ctx context.Context) error {
	l.logger.Info().Msg("Stopping PubsubLogger...")
	l.topic.Stop()

	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		l.logger.Info().Msg("PubsubLogger stopped gracefully.")
		return nil
	case <-ctx.Done():
		l.logger.Error().Err(ctx.Err()).Msg("Timeout waiting for event publishes to confirm.")
		return ctx.Err()
	}
}
