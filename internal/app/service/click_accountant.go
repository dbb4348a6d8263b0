package service

import (
	"context"
	"time"

	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
	"go.uber.org/zap"
)

// ClickAccountant increments a link's click counter and emits the click
// event. Everything here is best-effort: errors are logged and swallowed,
// never surfaced to the redirect path.
type ClickAccountant struct {
	logger    *zap.Logger
	links     repository.LinkRepository
	publisher *ClickPublisher
}

// NewClickAccountant creates an accountant. The publisher may be nil when
// the event pipeline is not wired (tests, degraded mode).
func NewClickAccountant(logger *zap.Logger, links repository.LinkRepository, publisher *ClickPublisher) *ClickAccountant {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickAccountant{
		logger:    logger,
		links:     links,
		publisher: publisher,
	}
}

// Record bumps clicks and last_clicked_at for the link, then publishes a
// click event. Callers run this off the redirect's critical path; the
// redirect target is already decided before Record is invoked.
func (a *ClickAccountant) Record(ctx context.Context, link *model.Link, ip, userAgent string) {
	now := time.Now()

	total, err := a.links.IncrementClicks(ctx, link.ID, now)
	if err != nil {
		a.logger.Error("failed to record click",
			zap.String("link_id", link.ID),
			zap.String("code", link.ShortCode),
			zap.Error(err))
		return
	}

	if a.publisher == nil {
		return
	}
	if err := a.publisher.Publish(link, total, ip, userAgent, now); err != nil {
		a.logger.Error("failed to publish click event",
			zap.String("code", link.ShortCode),
			zap.Error(err))
	}
}
