package cron

import (
	"Agora/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

type Manager struct {
	engine            *cron.Cron
	engagementSyncJob *job.EngagementSyncJob
	trendingTrimJob   *job.TrendingTrimJob
}

func NewCronManager(engagementSyncJob *job.EngagementSyncJob, trendingTrimJob *job.TrendingTrimJob) *Manager {
	return &Manager{
		engine:            cron.New(cron.WithSeconds()),
		engagementSyncJob: engagementSyncJob,
		trendingTrimJob:   trendingTrimJob,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob("0 */5 * * * *", s.engagementSyncJob); err != nil {
		return err
	}
	if _, err := s.engine.AddJob("@daily", s.trendingTrimJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	s.engine.Stop()
}
