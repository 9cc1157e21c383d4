package service

import (
	"time"

	"shareit/internal/domain"

	"github.com/rs/zerolog"
)

// Clock returns the current instant. Time-relative rules read it instead of
// calling time.Now directly.
type Clock func() time.Time

// Option customizes a service at construction.
type Option func(*base)

// WithClock replaces the wall clock.
func WithClock(clock Clock) Option {
	return func(b *base) {
		if clock != nil {
			b.now = clock
		}
	}
}

// base holds what every service shares.
type base struct {
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	now      Clock
}

func newBase(eventBus domain.EventPublisher, logger *zerolog.Logger, opts []Option) base {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	b := base{
		eventBus: eventBus,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// publish never fails the caller; the write already happened.
func (b *base) publish(eventType string, payload interface{}) {
	if b.eventBus == nil {
		return
	}
	if err := b.eventBus.PublishJSON(eventType, payload); err != nil {
		b.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}
