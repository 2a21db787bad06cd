package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Refresher re-runs the day-boundary checks of the workspace state.
type Refresher interface {
	Refresh(ctx context.Context) (bool, error)
}

// Periodic runs a Refresher every interval and once right after local
// midnight, so recurring tasks, the timetable week and the streak roll over
// while the app stays open.
type Periodic struct {
	cron     *cron.Cron
	target   Refresher
	logger   *zap.Logger
	interval time.Duration
	onChange func()

	mu      sync.Mutex
	running bool
}

func NewPeriodic(target Refresher, interval time.Duration, loc *time.Location, logger *zap.Logger) *Periodic {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Periodic{
		cron:     cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		target:   target,
		logger:   logger.With(zap.String("component", "scheduler")),
		interval: interval,
	}
}

// OnChange registers a callback invoked after a refresh that changed state.
func (p *Periodic) OnChange(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onChange = fn
}

func (p *Periodic) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return nil
	}
	spec, err := intervalSpec(p.interval)
	if err != nil {
		return err
	}
	if _, err := p.cron.AddFunc(spec, p.Run); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	if _, err := p.cron.AddFunc("1 0 0 * * *", p.Run); err != nil {
		return fmt.Errorf("schedule rollover: %w", err)
	}
	p.cron.Start()
	p.running = true
	p.logger.Debug("periodic refresh started", zap.Duration("interval", p.interval))
	return nil
}

func (p *Periodic) Stop() {
	p.mu.Lock()
	running := p.running
	p.running = false
	p.mu.Unlock()
	if !running {
		return
	}
	<-p.cron.Stop().Done()
}

// Run performs one refresh. Failures are logged.
func (p *Periodic) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	changed, err := p.target.Refresh(ctx)
	if err != nil {
		p.logger.Warn("refresh failed", zap.Error(err))
		return
	}
	if !changed {
		return
	}
	p.logger.Info("workspace rolled over")
	p.mu.Lock()
	fn := p.onChange
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func intervalSpec(interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("scheduler: interval must be positive, got %s", interval)
	}
	seconds := int(interval.Seconds())
	if seconds <= 0 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds), nil
}
