package invalidate

import (
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/insurancevn/insurancenews/internal/config"
	ferrors "github.com/insurancevn/insurancenews/internal/foundation/errors"
	"github.com/insurancevn/insurancenews/internal/metrics"
)

type call struct{ kind, key string }

type fakeTarget struct {
	mu    sync.Mutex
	calls []call
}

func (f *fakeTarget) Invalidate(kind, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{kind, key})
	return 2
}

type kindRecorder struct {
	metrics.NoopRecorder
	kinds []string
}

func (r *kindRecorder) IncInvalidation(kind string) { r.kinds = append(r.kinds, kind) }

func newTestSubscriber(t *testing.T, target Invalidator, rec metrics.Recorder) *Subscriber {
	t.Helper()
	s, err := NewSubscriber(config.InvalidationConfig{NATSURL: "nats://127.0.0.1:1", Subject: "test.invalidate"}, target,
		WithRecorder(rec), WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return s
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    Message
		wantErr ferrors.ErrorCategory
	}{
		{"article", `{"kind":"article","key":"phi-xe"}`, Message{Kind: "article", Key: "phi-xe"}, ""},
		{"legal doc", `{"kind":" Legal_Doc ","key":" 67-2023-ND-CP "}`, Message{Kind: "legal_doc", Key: "67-2023-ND-CP"}, ""},
		{"lists only", `{"kind":"article"}`, Message{Kind: "article"}, ""},
		{"all drops key", `{"kind":"all","key":"x"}`, Message{Kind: "all"}, ""},
		{"companies drop key", `{"kind":"companies","key":"bao-viet"}`, Message{Kind: "companies"}, ""},
		{"unknown kind", `{"kind":"video","key":"x"}`, Message{}, ferrors.CategoryValidation},
		{"not json", `article:x`, Message{}, ferrors.CategoryDecode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode([]byte(tt.payload))
			if tt.wantErr != "" {
				require.Error(t, err)
				var ce *ferrors.ClassifiedError
				require.ErrorAs(t, err, &ce)
				assert.Equal(t, tt.wantErr, ce.Category())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestApply(t *testing.T) {
	target := &fakeTarget{}
	rec := &kindRecorder{}
	s := newTestSubscriber(t, target, rec)

	reply := s.Apply([]byte(`{"kind":"article","key":"phi-xe"}`))
	assert.Equal(t, Reply{Kind: "article", Key: "phi-xe", Removed: 2}, reply)

	reply = s.Apply([]byte(`{"kind":"video"}`))
	assert.NotEmpty(t, reply.Error)
	assert.Zero(t, reply.Removed)

	assert.Equal(t, []call{{"article", "phi-xe"}}, target.calls)
	assert.Equal(t, []string{"article"}, rec.kinds)
}

func TestNewSubscriberValidation(t *testing.T) {
	_, err := NewSubscriber(config.InvalidationConfig{Subject: "x"}, &fakeTarget{})
	require.Error(t, err)

	_, err = NewSubscriber(config.InvalidationConfig{NATSURL: "nats://localhost:4222"}, &fakeTarget{})
	require.Error(t, err)

	_, err = NewSubscriber(config.InvalidationConfig{NATSURL: "nats://localhost:4222", Subject: "x"}, nil)
	require.Error(t, err)
}

func TestStartUnreachable(t *testing.T) {
	s := newTestSubscriber(t, &fakeTarget{}, nil)
	err := s.Start(t.Context())
	require.Error(t, err)
	var ce *ferrors.ClassifiedError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ferrors.CategoryNetwork, ce.Category())
	s.Close()
}
