package model

import "time"

// Link describes one shortening mapping stored in Postgres.
//
// ShortCode uniqueness is enforced by the creation path; the unique index
// is the backstop for the non-atomic check-then-write window.
type Link struct {
	ID             string     `db:"id" gorm:"primaryKey;size:36"`
	ShortCode      string     `db:"short_code" gorm:"uniqueIndex;size:32;not null"`
	OriginalURL    string     `db:"original_url" gorm:"type:text;not null"`
	CreatedBy      string     `db:"created_by" gorm:"index;size:64;not null"`
	CreatedByEmail string     `db:"created_by_email" gorm:"size:255"`
	Clicks         int64      `db:"clicks" gorm:"not null;default:0"`
	LastClickedAt  *time.Time `db:"last_clicked_at"`
	IsCustom       bool       `db:"is_custom" gorm:"not null;default:false"`
	CreatedViaAPI  bool       `db:"created_via_api" gorm:"not null;default:false"`
	APITokenID     string     `db:"api_token_id" gorm:"size:36"`
	CreatedAt      time.Time  `db:"created_at" gorm:"autoCreateTime"`
}
