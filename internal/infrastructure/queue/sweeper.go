package queue

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/pfinal/passport/internal/application/ports"
)

const TypeTokenSweep = "token:sweep"

// Sweeper periodically deletes expired stored tokens. The opaque codec's
// probabilistic lazy cleanup still runs on verify; this bounds how long
// expired rows survive under low traffic. Requires redis for asynq.
type Sweeper struct {
	srv       *asynq.Server
	scheduler *asynq.Scheduler
	store     ports.TokenStore
	ttl       time.Duration
	cronSpec  string
	log       zerolog.Logger
}

// NewSweeper creates the scheduler and worker. cronSpec is an asynq cron
// expression, e.g. "@every 1h". Call Run() to start.
func NewSweeper(redisOpt asynq.RedisClientOpt, store ports.TokenStore, ttl time.Duration, cronSpec string, log zerolog.Logger) *Sweeper {
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 1,
		LogLevel:    asynq.InfoLevel,
	})
	scheduler := asynq.NewScheduler(redisOpt, nil)
	return &Sweeper{
		srv:       srv,
		scheduler: scheduler,
		store:     store,
		ttl:       ttl,
		cronSpec:  cronSpec,
		log:       log,
	}
}

// Run blocks until shutdown. Use Shutdown for graceful stop.
func (s *Sweeper) Run() error {
	if _, err := s.scheduler.Register(s.cronSpec, asynq.NewTask(TypeTokenSweep, nil)); err != nil {
		return err
	}
	if err := s.scheduler.Start(); err != nil {
		return err
	}
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeTokenSweep, s.handleSweep)
	return s.srv.Run(mux)
}

// Shutdown stops the scheduler and worker.
func (s *Sweeper) Shutdown() {
	s.scheduler.Shutdown()
	s.srv.Shutdown()
}

func (s *Sweeper) handleSweep(ctx context.Context, t *asynq.Task) error {
	removed, err := s.store.DeleteExpired(ctx, time.Now().Add(-s.ttl))
	if err != nil {
		s.log.Warn().Err(err).Msg("token sweep failed")
		return err
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("token sweep")
	}
	return nil
}
