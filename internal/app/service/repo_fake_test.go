package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
)

// memLinkRepo is an in-memory LinkRepository used across the service tests.
type memLinkRepo struct {
	mu    sync.Mutex
	links map[string]*model.Link

	incErr   error
	incCalls int
}

func newMemLinkRepo() *memLinkRepo {
	return &memLinkRepo{links: make(map[string]*model.Link)}
}

func (r *memLinkRepo) Create(ctx context.Context, link *model.Link) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if link.ID == "" {
		link.ID = uuid.New().String()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now()
	}
	cp := *link
	r.links[link.ID] = &cp
	return nil
}

func (r *memLinkRepo) GetByID(ctx context.Context, id string) (*model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	link, ok := r.links[id]
	if !ok {
		return nil, repository.ErrLinkNotFound
	}
	cp := *link
	return &cp, nil
}

func (r *memLinkRepo) GetByCode(ctx context.Context, code string) (*model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var found *model.Link
	for _, link := range r.links {
		if link.ShortCode != code {
			continue
		}
		if found == nil || link.CreatedAt.Before(found.CreatedAt) {
			found = link
		}
	}
	if found == nil {
		return nil, repository.ErrLinkNotFound
	}
	cp := *found
	return &cp, nil
}

func (r *memLinkRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, link := range r.links {
		if link.ShortCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r *memLinkRepo) AllCodes(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	codes := make([]string, 0, len(r.links))
	for _, link := range r.links {
		codes = append(codes, link.ShortCode)
	}
	return codes, nil
}

func (r *memLinkRepo) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]model.Link, error) {
	all, err := r.AllByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *memLinkRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, link := range r.links {
		if link.CreatedBy == ownerID {
			count++
		}
	}
	return count, nil
}

func (r *memLinkRepo) AllByOwner(ctx context.Context, ownerID string) ([]model.Link, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []model.Link
	for _, link := range r.links {
		if link.CreatedBy == ownerID {
			result = append(result, *link)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memLinkRepo) IncrementClicks(ctx context.Context, id string, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.incCalls++
	if r.incErr != nil {
		return 0, r.incErr
	}
	link, ok := r.links[id]
	if !ok {
		return 0, repository.ErrLinkNotFound
	}
	link.Clicks++
	t := at
	link.LastClickedAt = &t
	return link.Clicks, nil
}

func (r *memLinkRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.links[id]; !ok {
		return repository.ErrLinkNotFound
	}
	delete(r.links, id)
	return nil
}
