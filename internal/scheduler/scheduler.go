package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"TrendWatch/internal/logger"
)

// Poller runs one job on a constant-delay schedule. It is owned by a single
// view and must be stopped when that view goes away.
type Poller struct {
	Cron     *cron.Cron
	Interval time.Duration

	job     cron.Job
	mu      sync.Mutex
	entry   cron.EntryID
	started bool
	stopped bool
	log     *zap.SugaredLogger
}

// NewPoller creates a Poller for job. Intervals below one second are rounded
// up by cron.
func NewPoller(interval time.Duration, job func()) *Poller {
	log := logger.Named("scheduler")
	cl := cronLogger{log}
	// Wrapped once so the skip guard survives Reset re-registering the entry.
	chain := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))
	return &Poller{
		Cron:     cron.New(cron.WithLogger(cl)),
		Interval: interval,
		job:      chain.Then(cron.FuncJob(job)),
		log:      log,
	}
}

// Start registers the job and starts the cron loop.
func (p *Poller) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return fmt.Errorf("poller already started")
	}
	p.started = true
	p.entry = p.Cron.Schedule(cron.Every(p.Interval), p.job)
	p.Cron.Start()
	p.log.Infow("poller started", "interval", p.Interval)
	return nil
}

// Reset restarts the interval so the next tick fires one full interval from now.
func (p *Poller) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started || p.stopped {
		return
	}
	p.Cron.Remove(p.entry)
	p.entry = p.Cron.Schedule(cron.Every(p.Interval), p.job)
}

// Stop halts the schedule and waits for a running job to return. Safe to call
// more than once.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	p.Cron.Remove(p.entry)
	p.mu.Unlock()

	<-p.Cron.Stop().Done()
	p.log.Info("poller stopped")
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
