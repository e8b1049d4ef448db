package publisher

import (
	"context"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/kyak15/soccer-analytics/internal/platform/logging"
	"github.com/kyak15/soccer-analytics/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const DefaultStream = "soccer.pipeline.matches"

type RedisStreamConfig struct {
	URL    string
	Stream string
	// MaxLen caps the stream approximately; 0 keeps everything.
	MaxLen int64
}

type streamAdder interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// RedisStreamPublisher appends pipeline events to a Redis stream.
type RedisStreamPublisher struct {
	client streamAdder
	closer func() error
	stream string
	maxLen int64
	logger *logging.Logger
}

// NewRedisStreamPublisher connects to cfg.URL and pings it before returning.
func NewRedisStreamPublisher(ctx context.Context, cfg RedisStreamConfig, logger *logging.Logger) (*RedisStreamPublisher, error) {
	opt, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, crerr.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, crerr.Wrapf(err, "ping redis at %s", opt.Addr)
	}

	p := newRedisStreamPublisher(client, cfg, logger)
	p.closer = client.Close
	return p, nil
}

func newRedisStreamPublisher(client streamAdder, cfg RedisStreamConfig, logger *logging.Logger) *RedisStreamPublisher {
	if logger == nil {
		logger = logging.Default()
	}
	stream := strings.TrimSpace(cfg.Stream)
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: cfg.MaxLen,
		logger: logger.Named("publisher"),
	}
}

func (p *RedisStreamPublisher) Publish(ctx context.Context, event usecase.PipelineEvent) error {
	data, err := sonic.Marshal(event)
	if err != nil {
		return crerr.Wrapf(err, "encode event for match %s", event.MatchID)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"run_id":   event.RunID,
			"match_id": event.MatchID,
			"status":   event.Status,
			"data":     string(data),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return crerr.Wrapf(err, "xadd %s", p.stream)
	}
	p.logger.DebugContext(ctx, "pipeline event published", "stream", p.stream, "entry_id", id, "match_id", event.MatchID)
	return nil
}

func (p *RedisStreamPublisher) Close() error {
	if p.closer == nil {
		return nil
	}
	return p.closer()
}
