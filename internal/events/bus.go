// Tablescout - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablescout

package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/tomtom215/tablescout/internal/logging"
	"github.com/tomtom215/tablescout/internal/metrics"
)

// BusConfig tunes the event bus.
type BusConfig struct {
	// Buffer is the per-subscriber channel buffer.
	Buffer int64
	// MaxRetries is how often a failing handler is retried.
	MaxRetries int
	// RetryInterval is the initial retry backoff.
	RetryInterval time.Duration
	// CloseTimeout bounds handler drain on shutdown.
	CloseTimeout time.Duration
}

// DefaultBusConfig returns the default bus configuration.
func DefaultBusConfig() BusConfig {
	return BusConfig{
		Buffer:        256,
		MaxRetries:    2,
		RetryInterval: 50 * time.Millisecond,
		CloseTimeout:  5 * time.Second,
	}
}

// HandlerFunc consumes one event. A returned error triggers the retry
// middleware.
type HandlerFunc func(ctx context.Context, e Event) error

type handlerSpec struct {
	name  string
	topic string
	fn    HandlerFunc
}

// Bus is an in-process publish/subscribe bus. It implements Publisher and
// runs as a supervised service through Serve.
type Bus struct {
	cfg    BusConfig
	pubsub *gochannel.GoChannel
	logger watermill.LoggerAdapter

	mu       sync.Mutex
	handlers []handlerSpec

	running     chan struct{}
	runningOnce sync.Once
}

var _ Publisher = (*Bus)(nil)

// NewBus creates a bus. Handlers must be added before Serve.
func NewBus(cfg BusConfig) *Bus {
	def := DefaultBusConfig()
	if cfg.Buffer <= 0 {
		cfg.Buffer = def.Buffer
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = def.RetryInterval
	}
	if cfg.CloseTimeout <= 0 {
		cfg.CloseTimeout = def.CloseTimeout
	}
	logger := logging.NewWatermillLogger()
	return &Bus{
		cfg:     cfg,
		pubsub:  gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: cfg.Buffer}, logger),
		logger:  logger,
		running: make(chan struct{}),
	}
}

// Subscribe registers fn for topic under a unique handler name.
func (b *Bus) Subscribe(name, topic string, fn HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, handlerSpec{name: name, topic: topic, fn: fn})
}

// Publish implements Publisher. Failures are logged.
func (b *Bus) Publish(ctx context.Context, e Event) {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.RequestID == "" {
		e.RequestID = logging.RequestIDFromContext(ctx)
	}
	payload, err := encode(e)
	if err == nil {
		msg := message.NewMessage(watermill.NewUUID(), payload)
		if id := logging.CorrelationIDFromContext(ctx); id != "" {
			middleware.SetCorrelationID(id, msg)
		}
		err = b.pubsub.Publish(e.Topic, msg)
	}
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("topic", e.Topic).Msg("Failed to publish lifecycle event")
	}
}

// Running is closed once the first router has started.
func (b *Bus) Running() <-chan struct{} {
	return b.running
}

// Serve runs a router over the registered handlers until ctx is done. A new
// router is built per call so a supervisor can restart it.
func (b *Bus) Serve(ctx context.Context) error {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: b.cfg.CloseTimeout}, b.logger)
	if err != nil {
		return fmt.Errorf("create event router: %w", err)
	}
	router.AddMiddleware(
		settle,
		middleware.Recoverer,
		middleware.CorrelationID,
		middleware.Retry{
			MaxRetries:      b.cfg.MaxRetries,
			InitialInterval: b.cfg.RetryInterval,
			Logger:          b.logger,
		}.Middleware,
	)

	b.mu.Lock()
	for _, h := range b.handlers {
		router.AddConsumerHandler(h.name, h.topic, b.pubsub, consume(h))
	}
	b.mu.Unlock()

	go func() {
		select {
		case <-router.Running():
			b.runningOnce.Do(func() { close(b.running) })
		case <-ctx.Done():
		}
	}()

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("event router: %w", err)
	}
	return ctx.Err()
}

// Close shuts down the pub/sub. Serve must have returned.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// String names the service for the supervisor.
func (b *Bus) String() string { return "event-bus" }

func consume(h handlerSpec) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		e, err := decode(msg.Payload)
		if err != nil {
			return fmt.Errorf("%s: %w", h.name, err)
		}
		ctx := msg.Context()
		if id := middleware.MessageCorrelationID(msg); id != "" {
			ctx = logging.ContextWithCorrelationID(ctx, id)
		}
		return h.fn(ctx, e)
	}
}

// settle records the final outcome of a delivery and acks it. A nacked
// message would be redelivered by the GoChannel forever.
func settle(h message.HandlerFunc) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		out, err := h(msg)
		topic := message.SubscribeTopicFromCtx(msg.Context())
		metrics.RecordEventHandled(topic, err == nil)
		if err != nil {
			log := logging.WithComponent("events")
			log.Error().Err(err).
				Str("topic", topic).
				Str("handler", message.HandlerNameFromCtx(msg.Context())).
				Msg("Event handler failed after retries")
		}
		return out, nil
	}
}
