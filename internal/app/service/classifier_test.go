package service

import "testing"

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier(nil)

	cases := []struct {
		userAgent string
		want      VisitKind
	}{
		{chromeUA, VisitHuman},
		{"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) Safari/604.1", VisitHuman},
		{"", VisitHuman},
		{"Mozilla/5.0 (compatible; Discordbot/2.0; +https://discordapp.com)", VisitAutomated},
		{"DISCORDBOT/2.0", VisitAutomated},
		{"WhatsApp/2.23.20", VisitAutomated},
		{"Twitterbot/1.0", VisitAutomated},
		{"facebookexternalhit/1.1", VisitAutomated},
		{"Slackbot-LinkExpanding 1.0", VisitAutomated},
		{"Googlebot/2.1 (+http://www.google.com/bot.html)", VisitAutomated},
		{"some-random-crawler/0.1", VisitAutomated},
		{"link preview fetcher", VisitAutomated},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.userAgent); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.userAgent, got, tc.want)
		}
	}
}

func TestClassifier_ClassifyIsPure(t *testing.T) {
	c := NewClassifier(nil)

	ua := "Telegrambot (like TwitterBot)"
	first := c.Classify(ua)
	for i := 0; i < 3; i++ {
		if got := c.Classify(ua); got != first {
			t.Fatalf("classification changed between calls: %s then %s", first, got)
		}
	}
}

func TestVisitKind_String(t *testing.T) {
	if VisitHuman.String() != "human" {
		t.Errorf("VisitHuman.String() = %q", VisitHuman.String())
	}
	if VisitAutomated.String() != "automated" {
		t.Errorf("VisitAutomated.String() = %q", VisitAutomated.String())
	}
}

func TestClassifier_BrowserAndOS(t *testing.T) {
	c := NewClassifier(nil)

	if got := c.Browser(chromeUA); got != "Chrome" {
		t.Errorf("Browser = %q, want Chrome", got)
	}
	if got := c.Browser("curl/8.0"); got != "Unknown" {
		t.Errorf("Browser = %q, want Unknown", got)
	}
	if got := c.OS(chromeUA); got != "Windows" {
		t.Errorf("OS = %q, want Windows", got)
	}
	if got := c.OS("Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X)"); got != "iOS" {
		t.Errorf("OS = %q, want iOS", got)
	}
	if got := c.OS("Mozilla/5.0 (Macintosh; Intel Mac OS X 14_0)"); got != "macOS" {
		t.Errorf("OS = %q, want macOS", got)
	}
}
