package service

import (
	"context"
	"errors"
	"testing"

	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
)

func TestClickAccountant_Record(t *testing.T) {
	repo := newMemLinkRepo()
	link := &model.Link{ShortCode: "abc123", OriginalURL: "https://example.com"}
	if err := repo.Create(context.Background(), link); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	acc := NewClickAccountant(nil, repo, nil)
	acc.Record(context.Background(), link, "203.0.113.9", chromeUA)
	acc.Record(context.Background(), link, "203.0.113.9", chromeUA)

	got, err := repo.GetByID(context.Background(), link.ID)
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}
	if got.Clicks != 2 {
		t.Fatalf("expected 2 clicks, got %d", got.Clicks)
	}
	if got.LastClickedAt == nil {
		t.Fatal("expected last_clicked_at to be stamped")
	}
}

func TestClickAccountant_RecordSwallowsErrors(t *testing.T) {
	repo := newMemLinkRepo()
	repo.incErr = errors.New("database down")

	acc := NewClickAccountant(nil, repo, nil)
	// Must not panic or propagate.
	acc.Record(context.Background(), &model.Link{ID: "nope", ShortCode: "x"}, "", "")

	if repo.incCalls != 1 {
		t.Fatalf("expected one increment attempt, got %d", repo.incCalls)
	}
}

func TestClickAccountant_RecordMissingLink(t *testing.T) {
	repo := newMemLinkRepo()
	acc := NewClickAccountant(nil, repo, nil)

	acc.Record(context.Background(), &model.Link{ID: "gone", ShortCode: "gone"}, "", "")

	if _, err := repo.GetByID(context.Background(), "gone"); !errors.Is(err, repository.ErrLinkNotFound) {
		t.Fatalf("expected the link to stay absent, got %v", err)
	}
}
