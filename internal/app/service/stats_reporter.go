package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"go.uber.org/zap"
)

// DailyStatsReporter periodically aggregates system-wide totals and posts
// them to the notification channel.
type DailyStatsReporter struct {
	logger   *zap.Logger
	pool     *pgxpool.Pool
	notifier *discord.Client
	interval time.Duration
	stopChan chan struct{}
}

// NewDailyStatsReporter creates a reporter posting once per interval.
func NewDailyStatsReporter(logger *zap.Logger, pool *pgxpool.Pool, notifier *discord.Client, interval time.Duration) *DailyStatsReporter {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &DailyStatsReporter{
		logger:   logger,
		pool:     pool,
		notifier: notifier,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Start begins the periodic reporting.
func (r *DailyStatsReporter) Start() {
	go r.run()
}

// Stop stops the periodic reporting.
func (r *DailyStatsReporter) Stop() {
	close(r.stopChan)
}

func (r *DailyStatsReporter) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.report()
		case <-r.stopChan:
			r.logger.Info("daily stats reporter stopped")
			return
		}
	}
}

func (r *DailyStatsReporter) report() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := r.collect(ctx)
	if err != nil {
		r.logger.Error("failed to collect daily stats", zap.Error(err))
		return
	}

	r.logger.Info("daily stats",
		zap.Int64("total_users", stats.TotalUsers),
		zap.Int64("new_users_today", stats.NewUsersToday),
		zap.Int64("total_links", stats.TotalLinks),
		zap.Int64("new_links_today", stats.NewLinksToday),
		zap.Int64("total_clicks", stats.TotalClicks),
		zap.Int64("clicks_today", stats.ClicksToday),
	)

	if r.notifier == nil || !r.notifier.Enabled() {
		return
	}
	if err := r.notifier.Send(ctx, "", discord.DailyStatsEmbed(discord.DailyStats{
		TotalUsers:    stats.TotalUsers,
		NewUsersToday: stats.NewUsersToday,
		TotalLinks:    stats.TotalLinks,
		NewLinksToday: stats.NewLinksToday,
		TotalClicks:   stats.TotalClicks,
		ClicksToday:   stats.ClicksToday,
	})); err != nil {
		r.logger.Warn("failed to send daily stats notification", zap.Error(err))
	}
}

type dailyStats struct {
	TotalUsers    int64
	NewUsersToday int64
	TotalLinks    int64
	NewLinksToday int64
	TotalClicks   int64
	ClicksToday   int64
}

// collect runs the aggregates in one round trip each over the pgx pool.
// ClicksToday attributes a link's whole counter to today when its last
// click happened today, matching the historical report.
func (r *DailyStatsReporter) collect(ctx context.Context) (*dailyStats, error) {
	var stats dailyStats

	row := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM users WHERE created_at >= date_trunc('day', now())),
			(SELECT COUNT(*) FROM links),
			(SELECT COUNT(*) FROM links WHERE created_at >= date_trunc('day', now())),
			(SELECT COALESCE(SUM(clicks), 0) FROM links),
			(SELECT COALESCE(SUM(clicks), 0) FROM links WHERE last_clicked_at >= date_trunc('day', now()))
	`)
	if err := row.Scan(
		&stats.TotalUsers,
		&stats.NewUsersToday,
		&stats.TotalLinks,
		&stats.NewLinksToday,
		&stats.TotalClicks,
		&stats.ClicksToday,
	); err != nil {
		return nil, err
	}

	return &stats, nil
}
