package bootstrap

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/BearBump/ParcelAssist/config"
	"github.com/BearBump/ParcelAssist/internal/cache/rediscache"
	"github.com/BearBump/ParcelAssist/internal/services/conversation"
	"github.com/BearBump/ParcelAssist/internal/storage/memorders"
	"github.com/BearBump/ParcelAssist/internal/storage/pgorders"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type scripted struct {
	answers []string
	lines   []string
}

func (s *scripted) Say(_ context.Context, line string) error {
	s.lines = append(s.lines, line)
	return nil
}

func (s *scripted) Ask(_ context.Context, _ string) (string, error) {
	if len(s.answers) == 0 {
		return "", io.EOF
	}
	a := s.answers[0]
	s.answers = s.answers[1:]
	return a, nil
}

type recordingProducer struct {
	topics []string
	closed bool
}

func (p *recordingProducer) Publish(_ context.Context, topic string, _, _ []byte) error {
	p.topics = append(p.topics, topic)
	return nil
}

func (p *recordingProducer) Close() error {
	p.closed = true
	return nil
}

func TestNewAssistant_NilConfigUsesSamples(t *testing.T) {
	a, err := NewAssistant(context.Background(), nil, DefaultFactories())
	require.NoError(t, err)
	defer a.Close()

	st, ok := a.Orders.(*memorders.Store)
	require.True(t, ok)
	require.Equal(t, 3, st.Len())
	require.NoError(t, a.Ready(context.Background()))
}

func TestNewAssistant_SeedFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "orders.yaml")
	require.NoError(t, os.WriteFile(p, []byte(`
orders:
  - id: "ab-000001"
    email: "x@y.com"
    zip: "10001"
    status: "Delivered"
    carrier: "DHL"
    last_scan: "2025-09-01 10:00 ET - Delivered"
    eta: "2025-09-01"
`), 0o600))

	cfg := &config.Config{Assistant: config.AssistantConfig{OrderStore: "Memory", SeedPath: p}}
	a, err := NewAssistant(context.Background(), cfg, DefaultFactories())
	require.NoError(t, err)
	defer a.Close()

	o, found, err := a.Orders.FindByID(context.Background(), "AB-000001")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "DHL", o.Carrier)
}

func TestNewAssistant_UnknownStore(t *testing.T) {
	cfg := &config.Config{Assistant: config.AssistantConfig{OrderStore: "mongo"}}
	_, err := NewAssistant(context.Background(), cfg, DefaultFactories())
	require.Error(t, err)
	require.Contains(t, err.Error(), "mongo")
}

func TestNewAssistant_PostgresFactoryError(t *testing.T) {
	f := DefaultFactories()
	f.OpenPostgres = func(context.Context, string) (*pgorders.Storage, error) {
		return nil, context.DeadlineExceeded
	}
	cfg := &config.Config{Assistant: config.AssistantConfig{OrderStore: OrderStorePostgres}}
	_, err := NewAssistant(context.Background(), cfg, f)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNewAssistant_EventsAndCacheWired(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := splitAddr(t, mr.Addr())

	prod := &recordingProducer{}
	f := DefaultFactories()
	f.NewProducer = func(brokers []string) Producer {
		require.Equal(t, []string{"kafka:9092"}, brokers)
		return prod
	}
	f.NewCache = func(addr string) Cache {
		return rediscache.New(addr)
	}

	cfg := &config.Config{
		Kafka: config.KafkaConfig{Host: "kafka", Port: 9092, AssistantEventsTopicName: "events.test"},
		Redis: config.RedisConfig{Host: host, Port: port},
		Assistant: config.AssistantConfig{
			EventsEnabled:        true,
			OrderCacheTTLSeconds: 60,
			MaxAttempts:          1,
		},
	}
	a, err := NewAssistant(context.Background(), cfg, f)
	require.NoError(t, err)

	tr := &scripted{answers: []string{"AB-123456", "dora@gmail.com", "94107", "yes", "no", "no"}}
	sum, err := a.Driver.Run(context.Background(), "s-1", tr)
	require.NoError(t, err)
	require.Equal(t, conversation.StateEnd, sum.Final)
	require.True(t, mr.Exists("parcelassist:order:AB-123456:record"))

	tr = &scripted{answers: []string{"bad"}}
	sum, err = a.Driver.Run(context.Background(), "s-2", tr)
	require.NoError(t, err)
	require.Equal(t, conversation.StateEscalate, sum.Final)
	require.Equal(t, []string{"events.test"}, prod.topics)

	a.Close()
	require.True(t, prod.closed)
}

func TestSetupLogging(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	SetupLogging(&buf, slog.LevelWarn)
	slog.Info("hidden")
	slog.Warn("shown", "k", "v")
	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "k=v")
}

func TestOpenPostgresWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := OpenPostgresWithRetry(ctx, "postgres://u:p@127.0.0.1:1/db?sslmode=disable&connect_timeout=1", time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, p, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(p)
	require.NoError(t, err)
	return host, port
}
