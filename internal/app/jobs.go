package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// CatalogRefresher reloads the catalog document from its source.
type CatalogRefresher interface {
	Refresh(ctx context.Context) error
}

// StartBackgroundJobs schedules the periodic catalog refresh and starts the
// cron runner. Jobs stop when ctx is cancelled.
func (a *Application) StartBackgroundJobs(ctx context.Context, refresher CatalogRefresher) {
	spec := a.appConfig.Catalog.RefreshSpec
	if spec == "" {
		spec = "@every 15m"
	}

	_, err := a.sched.AddFunc(spec, func() {
		rctx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := refresher.Refresh(rctx); err != nil {
			zap.L().Warn("job: catalog refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		zap.L().Error("job: invalid catalog refresh spec", zap.String("spec", spec), zap.Error(err))
		return
	}

	a.sched.Start()
	zap.L().Info("job: background jobs started", zap.String("catalog_refresh", spec))

	go func() {
		<-ctx.Done()
		a.sched.Stop()
	}()
}
