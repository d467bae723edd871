// Package publisher announces completed analyses to other systems.
package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/okian/chessdna/internal/domain/types"
	"github.com/okian/chessdna/pkg/logger"
)

// DefaultSubject is used when no subject is configured.
const DefaultSubject = "chessdna.analysis.completed"

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("publisher closed")

// Publisher sends analysis completed events.
type Publisher interface {
	Publish(ctx context.Context, ev types.AnalysisCompleted) error
	Close() error
}

// Noop discards every event.
type Noop struct{}

// Publish implements Publisher.
func (Noop) Publish(context.Context, types.AnalysisCompleted) error { return nil }

// Close implements Publisher.
func (Noop) Close() error { return nil }

// conn is the subset of *nats.Conn the publisher needs.
type conn interface {
	Publish(subject string, data []byte) error
	Drain() error
	IsClosed() bool
}

// NATSPublisher publishes events as JSON on a core NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
	logger  logger.Logger
}

// Option applies a configuration option to the NATSPublisher.
type Option func(*NATSPublisher)

// WithSubject overrides DefaultSubject.
func WithSubject(subject string) Option {
	return func(p *NATSPublisher) {
		if subject != "" {
			p.subject = subject
		}
	}
}

// NewNATSPublisher connects to url. The connection keeps retrying in the
// background, so a broker that is down at startup does not fail the service.
func NewNATSPublisher(url string, opts ...Option) (*NATSPublisher, error) {
	l := logger.Get().Named("publisher")
	nc, err := nats.Connect(url,
		nats.Name("chessdna"),
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(60),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				l.Warn(context.Background(), "nats disconnected", logger.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			l.Info(context.Background(), "nats reconnected", logger.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return newWithConn(nc, l, opts...), nil
}

func newWithConn(c conn, l logger.Logger, opts ...Option) *NATSPublisher {
	p := &NATSPublisher{conn: c, subject: DefaultSubject, logger: l}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Subject returns the subject events are published on.
func (p *NATSPublisher) Subject() string {
	return p.subject
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(ctx context.Context, ev types.AnalysisCompleted) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.conn.IsClosed() {
		return ErrClosed
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := p.conn.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("nats publish %s: %w", p.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	if p.conn.IsClosed() {
		return nil
	}
	return p.conn.Drain()
}
