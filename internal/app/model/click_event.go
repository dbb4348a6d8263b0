package model

import "time"

// ClickEvent represents one human-attributed click on a short link.
// Events flow through JetStream before landing in Postgres.
type ClickEvent struct {
	ID          string    `json:"id" gorm:"primaryKey;size:36"`
	LinkID      string    `json:"link_id" gorm:"index;size:36"`
	ShortCode   string    `json:"short_code" gorm:"index;size:32"`
	OriginalURL string    `json:"original_url" gorm:"type:text"`
	TotalClicks int64     `json:"total_clicks"`
	IP          string    `json:"ip" gorm:"size:64"`
	UserAgent   string    `json:"user_agent" gorm:"type:text"`
	Browser     string    `json:"browser" gorm:"size:32"`
	OS          string    `json:"os" gorm:"size:32"`
	Timestamp   time.Time `json:"timestamp" gorm:"index"`
}

const (
	ClickStreamName     = "CLICKS"
	ClickStreamSubject  = "clicks.events"
	ClickConsumerName   = "click-logger"
	ClickStreamMaxBytes = 1024 * 1024 * 100 // 100MB
)
