package discord

import (
	"fmt"
	"time"
)

// Embed colors.
const (
	colorGreen  = 0x00ff00
	colorBlue   = 0x0099ff
	colorOrange = 0xff9900
	colorRed    = 0xff4444
	colorPurple = 0x9932cc
)

// Embed is the subset of Discord's embed object the app uses.
type Embed struct {
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Color       int          `json:"color"`
	Fields      []EmbedField `json:"fields,omitempty"`
	Timestamp   string       `json:"timestamp"`
	Footer      *EmbedFooter `json:"footer,omitempty"`
}

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

func newEmbed(title, description string, color int, footer string) Embed {
	return Embed{
		Title:       title,
		Description: description,
		Color:       color,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Footer:      &EmbedFooter{Text: footer},
	}
}

func truncateURL(u string) string {
	if len(u) > 100 {
		return u[:100] + "..."
	}
	return u
}

// NewLinkEmbed describes a freshly created link.
func NewLinkEmbed(userEmail, originalURL, shortCode, shortURL string, isCustom bool) Embed {
	kind := "generated"
	if isCustom {
		kind = "custom"
	}

	e := newEmbed("New link created",
		fmt.Sprintf("A %s short link was created", kind),
		colorBlue, "kisalink · links")
	e.Fields = []EmbedField{
		{Name: "User", Value: userEmail, Inline: true},
		{Name: "Type", Value: kind, Inline: true},
		{Name: "Short link", Value: fmt.Sprintf("[%s](%s)", shortCode, shortURL)},
		{Name: "Original URL", Value: truncateURL(originalURL)},
	}
	return e
}

// ClickInfo feeds the click embed.
type ClickInfo struct {
	ShortCode   string
	ShortURL    string
	OriginalURL string
	TotalClicks int64
	Browser     string
	OS          string
	IP          string
}

// ClickEmbed describes one human-attributed click.
func ClickEmbed(info ClickInfo) Embed {
	e := newEmbed("Link clicked",
		fmt.Sprintf("**%s** was clicked", info.ShortCode),
		colorOrange, "kisalink · clicks")
	e.Fields = []EmbedField{
		{Name: "Short link", Value: fmt.Sprintf("[%s](%s)", info.ShortCode, info.ShortURL), Inline: true},
		{Name: "Total clicks", Value: fmt.Sprintf("**%d**", info.TotalClicks), Inline: true},
		{Name: "Target URL", Value: truncateURL(info.OriginalURL)},
	}
	if info.Browser != "" {
		e.Fields = append(e.Fields, EmbedField{Name: "Browser", Value: info.Browser, Inline: true})
	}
	if info.OS != "" {
		e.Fields = append(e.Fields, EmbedField{Name: "OS", Value: info.OS, Inline: true})
	}
	if info.IP != "" {
		e.Fields = append(e.Fields, EmbedField{Name: "IP", Value: info.IP, Inline: true})
	}
	return e
}

// LinkDeletedEmbed describes a deleted link, including its final count.
func LinkDeletedEmbed(userEmail, shortCode, originalURL string, totalClicks int64) Embed {
	e := newEmbed("Link deleted", "A short link was deleted", colorRed, "kisalink · links")
	e.Fields = []EmbedField{
		{Name: "User", Value: userEmail, Inline: true},
		{Name: "Short code", Value: shortCode, Inline: true},
		{Name: "Total clicks", Value: fmt.Sprintf("**%d**", totalClicks), Inline: true},
		{Name: "Original URL", Value: truncateURL(originalURL)},
	}
	return e
}

// UserBanEmbed describes a moderation action on a user.
func UserBanEmbed(userEmail, displayName string, banned bool) Embed {
	title := "User unbanned"
	color := colorGreen
	if banned {
		title = "User banned"
		color = colorRed
	}

	e := newEmbed(title, "A user's ban status changed", color, "kisalink · admin")
	e.Fields = []EmbedField{
		{Name: "Email", Value: userEmail, Inline: true},
		{Name: "Name", Value: displayName, Inline: true},
	}
	return e
}

// DailyStats feeds the daily report embed.
type DailyStats struct {
	TotalUsers    int64
	NewUsersToday int64
	TotalLinks    int64
	NewLinksToday int64
	TotalClicks   int64
	ClicksToday   int64
}

// DailyStatsEmbed summarizes the system for the daily report.
func DailyStatsEmbed(stats DailyStats) Embed {
	e := newEmbed("Daily stats", "System summary", colorPurple, "kisalink · reports")
	e.Fields = []EmbedField{
		{Name: "Users", Value: fmt.Sprintf("**%d** (+%d today)", stats.TotalUsers, stats.NewUsersToday), Inline: true},
		{Name: "Links", Value: fmt.Sprintf("**%d** (+%d today)", stats.TotalLinks, stats.NewLinksToday), Inline: true},
		{Name: "Clicks", Value: fmt.Sprintf("**%d** (+%d today)", stats.TotalClicks, stats.ClicksToday), Inline: true},
	}
	return e
}
