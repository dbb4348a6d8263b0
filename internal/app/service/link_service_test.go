package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/keremkk/kisalink/internal/app/repository"
)

func newTestLinkService(t *testing.T, repo repository.LinkRepository) *linkService {
	t.Helper()
	svc, err := NewLinkService(context.Background(), repo, NewCodeGenerator(nil))
	if err != nil {
		t.Fatalf("NewLinkService returned error: %v", err)
	}
	return svc.(*linkService)
}

func TestLinkService_Create_Generated(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestLinkService(t, repo)

	link, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com/page",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if len(link.ShortCode) != GeneratedCodeLength {
		t.Fatalf("expected code of length %d, got %q", GeneratedCodeLength, link.ShortCode)
	}
	if link.IsCustom {
		t.Fatal("generated link marked as custom")
	}
	if link.ID == "" {
		t.Fatal("expected id to be assigned")
	}

	got, err := svc.Resolve(context.Background(), link.ShortCode)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.OriginalURL != "https://example.com/page" {
		t.Fatalf("resolved wrong link: %q", got.OriginalURL)
	}
}

func TestLinkService_Create_InvalidURL(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	for _, raw := range []string{"", "example.com", "not a url", "/relative/path"} {
		_, err := svc.Create(context.Background(), CreateLinkInput{
			OwnerID:     "user-1",
			OriginalURL: raw,
		})
		if !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("url %q: expected ErrInvalidURL, got %v", raw, err)
		}
	}
}

func TestLinkService_Create_CustomLowercased(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	link, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		CustomCode:  "My-Link",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if link.ShortCode != "my-link" {
		t.Fatalf("expected lower-cased code, got %q", link.ShortCode)
	}
	if !link.IsCustom {
		t.Fatal("custom link not marked as custom")
	}

	// Any casing of the alias resolves.
	got, err := svc.Resolve(context.Background(), "MY-LINK")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got.ID != link.ID {
		t.Fatalf("resolved wrong link: %s", got.ID)
	}
}

func TestLinkService_Create_CustomTaken(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	if _, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		CustomCode:  "taken",
	}); err != nil {
		t.Fatalf("first create returned error: %v", err)
	}

	_, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-2",
		OriginalURL: "https://example.org",
		CustomCode:  "Taken",
	})
	if !errors.Is(err, ErrCodeTaken) {
		t.Fatalf("expected ErrCodeTaken, got %v", err)
	}
}

func TestLinkService_Create_ReservedBeforeFormat(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	_, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		CustomCode:  "Admin",
	})
	if !errors.Is(err, ErrReservedCode) {
		t.Fatalf("expected ErrReservedCode, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		CustomCode:  "ab",
	})
	if !errors.Is(err, ErrInvalidCustomCode) {
		t.Fatalf("expected ErrInvalidCustomCode, got %v", err)
	}
}

func TestLinkService_Create_Exhausted(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	if _, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
		CustomCode:  "stuck1",
	}); err != nil {
		t.Fatalf("seed create returned error: %v", err)
	}

	// Every draw lands on the occupied code.
	calls := 0
	svc.generate = func() (string, error) {
		calls++
		return "stuck1", nil
	}

	_, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.org",
	})
	if !errors.Is(err, ErrCodeSpaceExhausted) {
		t.Fatalf("expected ErrCodeSpaceExhausted, got %v", err)
	}
	if calls != maxGenerateAttempts {
		t.Fatalf("expected %d attempts, got %d", maxGenerateAttempts, calls)
	}
}

func TestLinkService_Resolve_NotFound(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	_, err := svc.Resolve(context.Background(), "missing")
	if !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound, got %v", err)
	}
}

func TestLinkService_Get_Ownership(t *testing.T) {
	svc := newTestLinkService(t, newMemLinkRepo())

	link, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Get(context.Background(), link.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(context.Background(), link.ID, "user-1"); err != nil {
		t.Fatalf("Get returned error for owner: %v", err)
	}
}

func TestLinkService_Delete(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestLinkService(t, repo)

	link, err := svc.Create(context.Background(), CreateLinkInput{
		OwnerID:     "user-1",
		OriginalURL: "https://example.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if _, err := svc.Delete(context.Background(), link.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	deleted, err := svc.Delete(context.Background(), link.ID, "user-1")
	if err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if deleted.ShortCode != link.ShortCode {
		t.Fatalf("deleted record mismatch: %q", deleted.ShortCode)
	}

	if _, err := svc.Delete(context.Background(), link.ID, "user-1"); !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected ErrLinkNotFound on second delete, got %v", err)
	}
}

func TestLinkService_List_PageSizeCapped(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestLinkService(t, repo)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(context.Background(), CreateLinkInput{
			OwnerID:     "user-1",
			OriginalURL: "https://example.com",
		}); err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
	}

	links, total, err := svc.List(context.Background(), "user-1", 0, 100000)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 3 {
		t.Fatalf("expected total 3, got %d", total)
	}
	if len(links) != 3 {
		t.Fatalf("expected 3 links, got %d", len(links))
	}

	// Second page of size 2 holds the remaining link.
	links, _, err = svc.List(context.Background(), "user-1", 2, 2)
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link on page 2, got %d", len(links))
	}
}

func TestLinkService_Stats(t *testing.T) {
	repo := newMemLinkRepo()
	svc := newTestLinkService(t, repo)

	for i := 0; i < 7; i++ {
		link, err := svc.Create(context.Background(), CreateLinkInput{
			OwnerID:     "user-1",
			OriginalURL: "https://example.com",
		})
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if _, err := repo.IncrementClicks(context.Background(), link.ID, time.Now()); err != nil {
			t.Fatalf("IncrementClicks returned error: %v", err)
		}
	}

	stats, err := svc.Stats(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.TotalLinks != 7 {
		t.Fatalf("expected 7 links, got %d", stats.TotalLinks)
	}
	if stats.TotalClicks != 7 {
		t.Fatalf("expected 7 clicks, got %d", stats.TotalClicks)
	}
	if len(stats.RecentLinks) != 5 {
		t.Fatalf("expected 5 recent links, got %d", len(stats.RecentLinks))
	}
	if len(stats.ClicksOverTime) != 7 {
		t.Fatalf("expected 7 daily buckets, got %d", len(stats.ClicksOverTime))
	}
	last := stats.ClicksOverTime[6]
	if last.Date != time.Now().Format("2006-01-02") {
		t.Fatalf("expected last bucket to be today, got %s", last.Date)
	}
	if last.Clicks != 7 {
		t.Fatalf("expected all clicks attributed to today, got %d", last.Clicks)
	}

	empty, err := svc.Stats(context.Background(), "user-2")
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if empty.TotalLinks != 0 || empty.TotalClicks != 0 {
		t.Fatalf("expected empty stats, got %+v", empty)
	}
}
