package service

import "strings"

// VisitKind is the outcome of classifying an inbound client identity string.
type VisitKind int

const (
	// VisitHuman is the default when no pattern matches.
	VisitHuman VisitKind = iota
	// VisitAutomated covers bots, crawlers, scrapers and preview unfurlers.
	VisitAutomated
)

func (k VisitKind) String() string {
	if k == VisitAutomated {
		return "automated"
	}
	return "human"
}

// DefaultBotPatterns is the ordered signature list for automated clients.
// First match wins, so the specific names come before the generic
// "bot"/"crawler" substrings.
var DefaultBotPatterns = []string{
	"discordbot",
	"discord",
	"whatsapp",
	"telegrambot",
	"telegram",
	"twitterbot",
	"twitter",
	"facebookexternalhit",
	"facebook",
	"linkedinbot",
	"linkedin",
	"slackbot",
	"slack",
	"bot",
	"crawler",
	"spider",
	"scraper",
	"preview",
	"unfurl",
	"embed",
}

// Classifier decides whether a visit is human or automated from the
// User-Agent string. It is a pure, best-effort heuristic: unmatched bots
// count as human, and a human whose UA happens to contain a pattern is
// excluded from counting.
type Classifier struct {
	patterns []string
}

// NewClassifier builds a classifier with the given ordered pattern list.
// A nil list falls back to DefaultBotPatterns.
func NewClassifier(patterns []string) *Classifier {
	if patterns == nil {
		patterns = DefaultBotPatterns
	}
	lowered := make([]string, len(patterns))
	for i, p := range patterns {
		lowered[i] = strings.ToLower(p)
	}
	return &Classifier{patterns: lowered}
}

// Classify matches userAgent against the pattern list, case-insensitively.
func (c *Classifier) Classify(userAgent string) VisitKind {
	ua := strings.ToLower(userAgent)
	for _, p := range c.patterns {
		if strings.Contains(ua, p) {
			return VisitAutomated
		}
	}
	return VisitHuman
}

// Browser derives a coarse browser label for notification embeds.
func (c *Classifier) Browser(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Edge"):
		return "Edge"
	case strings.Contains(userAgent, "Chrome"):
		return "Chrome"
	case strings.Contains(userAgent, "Firefox"):
		return "Firefox"
	case strings.Contains(userAgent, "Safari"):
		return "Safari"
	default:
		return "Unknown"
	}
}

// OS derives a coarse operating-system label for notification embeds.
func (c *Classifier) OS(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Windows"):
		return "Windows"
	case strings.Contains(userAgent, "Android"):
		return "Android"
	case strings.Contains(userAgent, "iPhone"), strings.Contains(userAgent, "iPad"):
		return "iOS"
	case strings.Contains(userAgent, "Mac"):
		return "macOS"
	case strings.Contains(userAgent, "Linux"):
		return "Linux"
	default:
		return "Unknown"
	}
}
