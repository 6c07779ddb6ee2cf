// Package invalidate drops cached content API responses when the CMS
// announces a change over NATS.
package invalidate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/insurancevn/insurancenews/internal/config"
	"github.com/insurancevn/insurancenews/internal/content"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/logfields"
	"github.com/insurancevn/insurancenews/internal/metrics"
)

// Message is the payload published on the invalidation subject.
//
//	{"kind": "article", "key": "phi-bao-hiem-xe-may"}
//	{"kind": "all"}
type Message struct {
	Kind string `json:"kind"`
	Key  string `json:"key,omitempty"`
}

// Reply is sent back when the publisher used request/reply.
type Reply struct {
	Kind    string `json:"kind"`
	Key     string `json:"key,omitempty"`
	Removed int    `json:"removed"`
	Error   string `json:"error,omitempty"`
}

// Invalidator is the cache owner. *content.Fetcher satisfies it.
type Invalidator interface {
	Invalidate(kind, key string) int
}

// Option configures a Subscriber.
type Option func(*Subscriber)

func WithRecorder(r metrics.Recorder) Option {
	return func(s *Subscriber) { s.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Subscriber) {
		if l != nil {
			s.logger = l
		}
	}
}

// Subscriber listens on one subject and applies every message to target.
type Subscriber struct {
	url      string
	subject  string
	target   Invalidator
	recorder metrics.Recorder
	logger   *slog.Logger

	mu   sync.Mutex
	conn *nats.Conn
	sub  *nats.Subscription
}

// NewSubscriber validates cfg. It does not connect; see Start.
func NewSubscriber(cfg config.InvalidationConfig, target Invalidator, opts ...Option) (*Subscriber, error) {
	if cfg.NATSURL == "" {
		return nil, ferrors.ConfigError("invalidation is disabled: nats_url is empty").Build()
	}
	if cfg.Subject == "" {
		return nil, ferrors.ConfigError("invalidation subject is required").Build()
	}
	if target == nil {
		return nil, ferrors.ValidationError("invalidation target is required").Build()
	}
	s := &Subscriber{
		url:      cfg.NATSURL,
		subject:  cfg.Subject,
		target:   target,
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Start connects and subscribes. The subscription is closed when ctx ends.
// The client reconnects on its own after the first successful connect.
func (s *Subscriber) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("invalidation subscriber already started")
	}

	conn, err := nats.Connect(s.url,
		nats.Name("insurancenews-invalidate"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				s.logger.Warn("NATS disconnected", logfields.Error(err))
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			s.logger.Info("NATS reconnected", slog.String("url", c.ConnectedUrl()))
		}),
	)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to connect to NATS").
			WithContext("url", s.url).Build()
	}

	sub, err := conn.Subscribe(s.subject, s.handleMsg)
	if err != nil {
		conn.Close()
		return ferrors.WrapError(err, ferrors.CategoryNetwork, "failed to subscribe").
			WithContext("subject", s.subject).Build()
	}
	s.conn, s.sub = conn, sub

	s.logger.Info("Cache invalidation subscribed",
		slog.String("url", s.url),
		slog.String("subject", s.subject))

	go func() {
		<-ctx.Done()
		s.Close()
	}()
	return nil
}

// Close drains the subscription and closes the connection.
func (s *Subscriber) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return
	}
	if err := s.conn.Drain(); err != nil {
		s.logger.Debug("NATS drain failed", logfields.Error(err))
		s.conn.Close()
	}
	s.conn, s.sub = nil, nil
}

func (s *Subscriber) handleMsg(msg *nats.Msg) {
	reply := s.Apply(msg.Data)
	if msg.Reply == "" {
		return
	}
	data, err := json.Marshal(reply)
	if err != nil {
		return
	}
	if err := msg.Respond(data); err != nil {
		s.logger.Debug("Failed to answer invalidation request", logfields.Error(err))
	}
}

// Apply decodes one message and invalidates the matching entries.
func (s *Subscriber) Apply(data []byte) Reply {
	msg, err := Decode(data)
	if err != nil {
		s.logger.Warn("Rejected invalidation message", logfields.Error(err))
		return Reply{Kind: msg.Kind, Key: msg.Key, Error: err.Error()}
	}

	removed := s.target.Invalidate(msg.Kind, msg.Key)
	s.recorder.IncInvalidation(msg.Kind)
	s.logger.Info("Cache invalidated",
		slog.String("kind", msg.Kind),
		slog.String("key", msg.Key),
		slog.Int("removed", removed))
	return Reply{Kind: msg.Kind, Key: msg.Key, Removed: removed}
}

// Decode parses and validates a message. Kinds are case-insensitive. Record
// kinds without a key drop only the list responses of that kind.
func Decode(data []byte) (Message, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return msg, ferrors.WrapError(err, ferrors.CategoryDecode, "invalid invalidation payload").Build()
	}
	msg.Kind = strings.ToLower(strings.TrimSpace(msg.Kind))
	msg.Key = strings.TrimSpace(msg.Key)

	switch msg.Kind {
	case content.ResourceArticle, content.ResourceLegalDoc:
	case content.InvalidateAll, content.ResourceCompanies:
		msg.Key = ""
	default:
		return msg, ferrors.ValidationError(fmt.Sprintf("unknown invalidation kind %q", msg.Kind)).Build()
	}
	return msg, nil
}
