package audit

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taskhive/backend/internal/infrastructure/auditlog"
	"github.com/taskhive/backend/internal/infrastructure/auditspill"
)

// FlusherConfig controls how frequently spilled audit entries are retried.
type FlusherConfig struct {
	Interval   time.Duration
	BatchSize  int
	MaxRetries int
}

// Flusher periodically drains spilled audit entries back into the log
// file once it becomes writable again.
type Flusher struct {
	writer *auditlog.Writer
	spill  *auditspill.Store
	logger *zap.Logger
	cron   *cron.Cron
	cfg    FlusherConfig
}

func NewFlusher(writer *auditlog.Writer, spill *auditspill.Store, logger *zap.Logger, cfg FlusherConfig) *Flusher {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	f := &Flusher{
		writer: writer,
		spill:  spill,
		logger: logger,
		cfg:    cfg,
		cron:   cron.New(cron.WithSeconds()),
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = f.cron.AddFunc(schedule, func() {
		if err := f.Drain(); err != nil {
			f.logger.Error("audit spill drain failed", zap.Error(err))
		}
	})

	return f
}

// Start launches the cron scheduler.
func (f *Flusher) Start() {
	if f == nil || f.cron == nil {
		return
	}
	f.cron.Start()
	f.logger.Info("audit flusher started")
}

// Stop gracefully stops the scheduler, waiting for an in-flight drain.
func (f *Flusher) Stop() {
	if f == nil || f.cron == nil {
		return
	}
	<-f.cron.Stop().Done()
	f.logger.Info("audit flusher stopped")
}

// Drain retries one batch of spilled entries synchronously.
func (f *Flusher) Drain() error {
	if f == nil || f.spill == nil {
		return nil
	}

	entries, err := f.spill.GetBatch(f.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if err := f.writer.Append(entry.Rendered); err != nil {
			entry.Retries++
			if entry.Retries >= f.cfg.MaxRetries {
				f.logger.Warn("dropping audit entry (max retries reached)",
					zap.String("entry_id", entry.ID),
					zap.String("task_id", entry.TaskID))
				_ = f.spill.Remove(entry)
				continue
			}
			if err := f.spill.Requeue(entry); err != nil {
				f.logger.Error("failed to requeue audit entry", zap.Error(err))
			}
			continue
		}

		if err := f.spill.Remove(entry); err != nil {
			f.logger.Warn("failed to purge flushed audit entry", zap.Error(err))
		}
	}
	return nil
}
