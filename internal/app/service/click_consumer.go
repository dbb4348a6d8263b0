package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/keremkk/kisalink/internal/app/model"
	apprepository "github.com/keremkk/kisalink/internal/app/repository"
	"github.com/keremkk/kisalink/internal/infra/discord"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// ClickConsumer drains click events from JetStream, persists them and emits
// the click notification. Notification failures never prevent the event
// from being acked once it is stored.
type ClickConsumer struct {
	js         nats.JetStreamContext
	logger     *zap.Logger
	repo       apprepository.ClickEventRepository
	classifier *Classifier
	notifier   *discord.Client
	baseURL    string
}

// NewClickConsumer creates a new click event consumer.
func NewClickConsumer(js nats.JetStreamContext, logger *zap.Logger, repo apprepository.ClickEventRepository, classifier *Classifier, notifier *discord.Client, baseURL string) *ClickConsumer {
	return &ClickConsumer{
		js:         js,
		logger:     logger,
		repo:       repo,
		classifier: classifier,
		notifier:   notifier,
		baseURL:    baseURL,
	}
}

// Start ensures the stream and durable consumer exist, then begins pulling.
func (c *ClickConsumer) Start() error {
	_, err := c.js.StreamInfo(model.ClickStreamName)
	if err != nil {
		_, err = c.js.AddStream(&nats.StreamConfig{
			Name:     model.ClickStreamName,
			Subjects: []string{model.ClickStreamSubject},
			MaxBytes: model.ClickStreamMaxBytes,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	_, err = c.js.ConsumerInfo(model.ClickStreamName, model.ClickConsumerName)
	if err != nil {
		_, err = c.js.AddConsumer(model.ClickStreamName, &nats.ConsumerConfig{
			Durable:   model.ClickConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		})
		if err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}

	sub, err := c.js.PullSubscribe(model.ClickStreamSubject, model.ClickConsumerName)
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(sub)
	return nil
}

func (c *ClickConsumer) consume(sub *nats.Subscription) {
	ctx := context.Background()
	for {
		msgs, err := sub.Fetch(10, nats.MaxWait(5*time.Second))
		if err != nil && err != nats.ErrTimeout {
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			var event model.ClickEvent
			if err := json.Unmarshal(msg.Data, &event); err != nil {
				c.logger.Error("failed to unmarshal click event", zap.Error(err))
				msg.Nak()
				continue
			}

			// The classifier is the single source for the cosmetic
			// browser/OS labels in the notification embed.
			event.Browser = c.classifier.Browser(event.UserAgent)
			event.OS = c.classifier.OS(event.UserAgent)

			if err := c.repo.Create(ctx, &event); err != nil {
				c.logger.Error("failed to store click event",
					zap.String("id", event.ID),
					zap.String("code", event.ShortCode),
					zap.Error(err))
				msg.Nak()
				continue
			}

			c.notify(ctx, &event)

			c.logger.Debug("click event stored",
				zap.String("id", event.ID),
				zap.String("code", event.ShortCode),
				zap.String("ip", event.IP),
				zap.Time("timestamp", event.Timestamp),
			)

			msg.Ack()
		}
	}
}

func (c *ClickConsumer) notify(ctx context.Context, event *model.ClickEvent) {
	if c.notifier == nil || !c.notifier.Enabled() {
		return
	}

	embed := discord.ClickEmbed(discord.ClickInfo{
		ShortCode:   event.ShortCode,
		ShortURL:    c.baseURL + "/" + event.ShortCode,
		OriginalURL: event.OriginalURL,
		TotalClicks: event.TotalClicks,
		Browser:     event.Browser,
		OS:          event.OS,
		IP:          event.IP,
	})
	if err := c.notifier.Send(ctx, "", embed); err != nil {
		c.logger.Warn("failed to send click notification",
			zap.String("code", event.ShortCode),
			zap.Error(err))
	}
}
