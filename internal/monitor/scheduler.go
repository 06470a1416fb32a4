package monitor

import (
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var ErrInvalidInterval = errors.New("scheduler interval must be positive")

// Scheduler runs registered jobs on a fixed interval until stopped.
type Scheduler interface {
	Every(interval time.Duration, job func()) error
	Start()
	// Stop halts the scheduler and waits for a running job to finish.
	Stop()
}

// CronScheduler is a Scheduler backed by robfig/cron. A job that is still
// running when its next tick arrives is skipped.
type CronScheduler struct {
	cron     *cron.Cron
	stopOnce sync.Once
}

func NewCronScheduler(logger *zap.Logger) *CronScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	cl := cronLogger{logger.Sugar()}
	return &CronScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
	}
}

func (s *CronScheduler) Every(interval time.Duration, job func()) error {
	if interval <= 0 {
		return ErrInvalidInterval
	}
	s.cron.Schedule(cron.Every(interval), cron.FuncJob(job))
	return nil
}

func (s *CronScheduler) Start() {
	s.cron.Start()
}

// Stop is safe to call more than once.
func (s *CronScheduler) Stop() {
	s.stopOnce.Do(func() {
		<-s.cron.Stop().Done()
	})
}

// cronLogger adapts zap to cron.Logger. Scheduling chatter goes to debug.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
