package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/nats-io/nats.go"
)

// ClickPublisher publishes click events to NATS JetStream.
type ClickPublisher struct {
	js nats.JetStreamContext
}

// NewClickPublisher creates a new click event publisher.
func NewClickPublisher(js nats.JetStreamContext) *ClickPublisher {
	return &ClickPublisher{js: js}
}

// Publish puts a click event on the stream. Only human-classified clicks
// reach this point; automated visits are filtered before accounting.
func (p *ClickPublisher) Publish(link *model.Link, totalClicks int64, ip, userAgent string, at time.Time) error {
	event := model.ClickEvent{
		ID:          uuid.New().String(),
		LinkID:      link.ID,
		ShortCode:   link.ShortCode,
		OriginalURL: link.OriginalURL,
		TotalClicks: totalClicks,
		IP:          ip,
		UserAgent:   userAgent,
		Timestamp:   at,
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.ClickStreamSubject, data)
	return err
}
