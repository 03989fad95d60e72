package app

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/skillcart/skillcart/internal/orders"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func (a *Application) retention() time.Duration {
	days := a.appConfig.System.OrderRetentionDays
	if days <= 0 {
		days = 30
	}
	return time.Duration(days) * 24 * time.Hour
}

func (a *Application) initJob() {
	loc, _ := time.LoadLocation(a.appConfig.System.Location)
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	var err error
	_, err = a.sched.AddFunc("@daily", a.SchedCancelStaleOrders)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	_, err = a.sched.AddFunc("@daily", a.SchedCleanupScreenshots)
	if err != nil {
		zap.S().Errorf("init job error %s", err.Error())
	}

	a.sched.Start()
}

// SchedCancelStaleOrders cancels orders that sat in pending past the
// retention window. Customers get no email for these; the order was
// abandoned.
func (a *Application) SchedCancelStaleOrders() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	repo := orders.NewGormRepository(a.gormDB)
	cutoff := time.Now().Add(-a.retention())
	n, err := repo.CancelStalePending(context.Background(), cutoff)
	if err != nil {
		zap.L().Error("failed to cancel stale pending orders", zap.Error(err))
		return
	}
	if n > 0 {
		zap.L().Info("cancelled stale pending orders", zap.Int64("count", n))
	}
}

// SchedCleanupScreenshots removes payment screenshots left behind by
// cancelled orders once they age past the retention window.
func (a *Application) SchedCleanupScreenshots() {
	defer func() {
		if err := recover(); err != nil {
			zap.S().Error(err)
		}
	}()

	repo := orders.NewGormRepository(a.gormDB)
	ctx := context.Background()
	cutoff := time.Now().Add(-a.retention())
	stale, err := repo.CancelledWithScreenshots(ctx, cutoff)
	if err != nil {
		zap.L().Error("failed to list stale screenshots", zap.Error(err))
		return
	}

	uploadDir := a.appConfig.GetUploadDir()
	for _, o := range stale {
		// Screenshot paths are stored relative to the upload dir.
		path := filepath.Join(uploadDir, filepath.Clean(o.PaymentScreenshot))
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("failed to remove screenshot",
				zap.Int64("order", o.ID), zap.String("path", path), zap.Error(err))
			continue
		}
		if err := repo.ClearScreenshot(ctx, o.ID); err != nil {
			zap.L().Warn("failed to clear screenshot path",
				zap.Int64("order", o.ID), zap.Error(err))
		}
	}
	if len(stale) > 0 {
		zap.L().Info("cleaned up cancelled order screenshots", zap.Int("count", len(stale)))
	}
}
