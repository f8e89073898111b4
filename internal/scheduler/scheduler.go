package scheduler

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/go-co-op/gocron/v2"
)

type taskFn func(ctx context.Context) error

// Scheduler envuelve gocron con recuperación de pánicos y logging uniforme
// para los jobs de fondo de la aplicación.
type Scheduler struct {
	scheduler gocron.Scheduler
}

func New() *Scheduler {
	s, err := gocron.NewScheduler()
	if err != nil {
		panic(err.Error())
	}
	return &Scheduler{scheduler: s}
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() {
	_ = s.scheduler.Shutdown()
}

// NewIntervalJob registra un job que corre cada intervalo fijo. Los jobs no
// se solapan: si una corrida sigue en curso, la siguiente se reprograma.
func (s *Scheduler) NewIntervalJob(name string, fn taskFn, interval time.Duration, startImmediately bool) {
	opts := []gocron.JobOption{gocron.WithSingletonMode(gocron.LimitModeReschedule)}
	if startImmediately {
		opts = append(opts, gocron.WithStartAt(gocron.WithStartImmediately()))
	}

	_, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.withRecover(fn, name)),
		opts...,
	)
	if err != nil {
		slog.Error("error al crear el job", slog.String("job", name), slog.String("err", err.Error()))
		panic(err.Error())
	}
}

func (s *Scheduler) withRecover(fn taskFn, name string) func(ctx context.Context) {
	return func(ctx context.Context) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("pánico recuperado en un job",
					slog.String("job", name),
					slog.Any("panic", r),
					slog.String("stacktrace", string(debug.Stack())),
				)
			}
		}()

		if err := fn(ctx); err != nil {
			slog.Error("job terminó con error", slog.String("job", name), slog.String("err", err.Error()))
			return
		}
		slog.Debug("job completado", slog.String("job", name))
	}
}
