package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// API token format and rate limit bounds.
const (
	TokenPrefix       = "lks_"
	TokenRandomLength = 32

	DefaultRateLimit = 100
	MaxRateLimit     = 1000
)

// Resources and actions a token permission can name.
const (
	ResourceLinks  = "links"
	ResourceStats  = "stats"
	ResourceTokens = "tokens"

	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Permission grants a set of actions on one resource.
type Permission struct {
	Resource string   `json:"resource"`
	Actions  []string `json:"actions"`
}

// Permissions is stored as a JSON column.
type Permissions []Permission

func (p Permissions) Value() (driver.Value, error) {
	return json.Marshal(p)
}

func (p *Permissions) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("permissions: cannot scan %T", src)
	}
}

// Allows reports whether the permission set covers the resource/action pair.
func (p Permissions) Allows(resource, action string) bool {
	for _, perm := range p {
		if perm.Resource != resource {
			continue
		}
		for _, a := range perm.Actions {
			if a == action {
				return true
			}
		}
	}
	return false
}

// APIToken is a programmatic-access credential.
type APIToken struct {
	ID          string      `db:"id" gorm:"primaryKey;size:36"`
	Name        string      `db:"name" gorm:"size:128;not null"`
	Token       string      `db:"token" gorm:"uniqueIndex;size:64;not null"`
	UserID      string      `db:"user_id" gorm:"index;size:64;not null"`
	UserEmail   string      `db:"user_email" gorm:"size:255"`
	Permissions Permissions `db:"permissions" gorm:"type:jsonb"`
	RateLimit   int         `db:"rate_limit" gorm:"not null;default:100"`
	UsageCount  int64       `db:"usage_count" gorm:"not null;default:0"`
	LastUsedAt  *time.Time  `db:"last_used_at"`
	ExpiresAt   *time.Time  `db:"expires_at"`
	IsActive    bool        `db:"is_active" gorm:"not null;default:true"`
	CreatedAt   time.Time   `db:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `db:"updated_at" gorm:"autoUpdateTime"`
}

// APIUsage is one row per API call, success or failure. The trailing-hour
// count of these rows is the rate-limit ledger.
type APIUsage struct {
	ID         string    `db:"id" gorm:"primaryKey;size:36"`
	TokenID    string    `db:"token_id" gorm:"index;size:36;not null"`
	UserID     string    `db:"user_id" gorm:"size:64"`
	Endpoint   string    `db:"endpoint" gorm:"size:255"`
	Method     string    `db:"method" gorm:"size:8"`
	StatusCode int       `db:"status_code"`
	Timestamp  time.Time `db:"timestamp" gorm:"index;not null"`
}
