package cron

import (
	log "log/slog"

	"github.com/pkg/errors"
)

// InitCron 注册全部定时任务并启动调度引擎
func InitCron(mgr *Manager) error {
	if err := mgr.RegisterJobs(); err != nil {
		return errors.Wrap(err, "register cron jobs")
	}
	mgr.Start()
	log.Info("cron jobs registered", "jobs", []string{"engagement_sync", "trending_trim"})
	return nil
}
