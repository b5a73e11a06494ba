package workers

import (
	"context"
	"time"

	"jobnest_backend/internal/logger"
	"jobnest_backend/internal/repositories"

	"gorm.io/gorm"
)

// JobExpiryWorker периодически удаляет вакансии с истёкшим сроком.
type JobExpiryWorker struct {
	db       *gorm.DB
	jobRepo  repositories.JobRepository
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

func NewJobExpiryWorker(db *gorm.DB, jobRepo repositories.JobRepository, interval, timeout time.Duration) *JobExpiryWorker {
	return &JobExpiryWorker{
		db:       db,
		jobRepo:  jobRepo,
		interval: interval,
		timeout:  timeout,
		now:      time.Now,
	}
}

// Start запускает фоновую очистку; воркер останавливается вместе с ctx.
func (w *JobExpiryWorker) Start(ctx context.Context) {
	if w.interval <= 0 {
		logger.Info("Job expiry worker disabled")
		return
	}
	go w.run(ctx)
}

func (w *JobExpiryWorker) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Job expiry worker stopped")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				logger.CtxWithError(ctx, "Error deleting expired jobs", err)
			}
		}
	}
}

// Sweep deletes every posting that expired before now and returns how many were removed.
func (w *JobExpiryWorker) Sweep(ctx context.Context) (int64, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	db := w.db
	if db != nil {
		db = db.WithContext(ctx)
	}

	start := time.Now()
	removed, err := w.jobRepo.DeleteExpired(db, w.now())
	logger.DBLog("delete_expired_jobs", time.Since(start), err)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		logger.CtxInfo(ctx, "Deleted expired jobs", "count", removed)
	}
	return removed, nil
}
