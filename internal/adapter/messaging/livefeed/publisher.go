// Package livefeed publishes committed case openings to a NATS JetStream stream.
package livefeed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"case-opening-platform/config"
	"case-opening-platform/internal/core/domain"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

const streamMaxAge = 24 * time.Hour

// jetStream is the subset of nats.JetStreamContext the publisher needs.
type jetStream interface {
	StreamInfo(stream string, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	AddStream(cfg *nats.StreamConfig, opts ...nats.JSOpt) (*nats.StreamInfo, error)
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// Publisher implements ports.LiveFeedPublisher over JetStream.
type Publisher struct {
	conn    *nats.Conn
	js      jetStream
	subject string
	log     zerolog.Logger
}

// Connect dials NATS, ensures the live feed stream exists and returns a publisher.
func Connect(cfg config.NATSConfig, log zerolog.Logger) (*Publisher, error) {
	log = log.With().Str("component", "livefeed").Logger()

	nc, err := nats.Connect(cfg.URL,
		nats.Name("case-opening-platform"),
		nats.MaxReconnects(10),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				log.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Info().Msg("NATS reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	p := newPublisher(nc, js, cfg.Subject, log)
	if err := p.ensureStream(cfg.Stream); err != nil {
		nc.Close()
		return nil, err
	}

	log.Info().Str("url", cfg.URL).Str("stream", cfg.Stream).Msg("Connected to NATS JetStream")
	return p, nil
}

func newPublisher(conn *nats.Conn, js jetStream, subject string, log zerolog.Logger) *Publisher {
	return &Publisher{conn: conn, js: js, subject: subject, log: log}
}

func (p *Publisher) ensureStream(name string) error {
	_, err := p.js.StreamInfo(name)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info %s: %w", name, err)
	}

	_, err = p.js.AddStream(&nats.StreamConfig{
		Name:        name,
		Subjects:    []string{p.subject},
		Retention:   nats.LimitsPolicy,
		MaxAge:      streamMaxAge,
		Storage:     nats.FileStorage,
		Replicas:    1,
		Description: "Committed case openings",
	})
	if err != nil {
		return fmt.Errorf("create stream %s: %w", name, err)
	}

	p.log.Info().Str("stream", name).Str("subject", p.subject).Msg("Created JetStream stream")
	return nil
}

// PublishOpening publishes one opening event. Message ids deduplicate retries of the same opening.
func (p *Publisher) PublishOpening(ctx context.Context, event domain.OpeningEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal opening event: %w", err)
	}

	if _, err := p.js.Publish(p.subject, data, nats.Context(ctx), nats.MsgId(event.OpeningID.String())); err != nil {
		return fmt.Errorf("publish to %s: %w", p.subject, err)
	}
	return nil
}

// Close drains the connection.
func (p *Publisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Drain()
}

// Ping implements ports.HealthChecker.
func (p *Publisher) Ping(_ context.Context) error {
	if p.conn == nil || !p.conn.IsConnected() {
		return errors.New("nats: not connected")
	}
	return nil
}

func (p *Publisher) Name() string {
	return "nats"
}

// Discard is the publisher used when the live feed is disabled.
type Discard struct{}

func (Discard) PublishOpening(context.Context, domain.OpeningEvent) error { return nil }
