package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
)

// Creation-path errors surfaced to callers. Handlers map these onto
// 400/409 responses.
var (
	ErrInvalidURL         = errors.New("original url is not a valid absolute url")
	ErrInvalidCustomCode  = errors.New("custom code must be 3-20 chars of [a-z0-9-_]")
	ErrReservedCode       = errors.New("custom code is a reserved word")
	ErrCodeTaken          = errors.New("short code is already taken")
	ErrCodeSpaceExhausted = errors.New("could not find a free short code")
	ErrForbidden          = errors.New("link is owned by another principal")
)

// Generated-code collision retries are capped rather than unbounded, so an
// exhausted or adversarial code space fails loudly instead of spinning.
const maxGenerateAttempts = 10

// Bloom filter sizing for the code pre-filter. One percent false positives
// just means an occasional extra existence query.
const (
	bloomCapacity      = 1_000_000
	bloomFalsePositive = 0.01
)

// LinkService covers link lifecycle, short-code uniqueness and resolution.
type LinkService interface {
	Create(ctx context.Context, input CreateLinkInput) (*model.Link, error)
	Get(ctx context.Context, id, ownerID string) (*model.Link, error)
	List(ctx context.Context, ownerID string, page, pageSize int) ([]model.Link, int64, error)
	Delete(ctx context.Context, id, ownerID string) (*model.Link, error)
	Resolve(ctx context.Context, code string) (*model.Link, error)
	Stats(ctx context.Context, ownerID string) (*LinkStats, error)
}

// CreateLinkInput captures data required to create a link.
type CreateLinkInput struct {
	OwnerID       string
	OwnerEmail    string
	OriginalURL   string
	CustomCode    string
	CreatedViaAPI bool
	APITokenID    string
}

// LinkStats is the aggregate returned by the stats endpoint.
type LinkStats struct {
	TotalLinks     int64
	TotalClicks    int64
	RecentLinks    []model.Link
	ClicksOverTime []DailyClicks
}

// DailyClicks buckets click totals by link-creation date: a link's whole
// lifetime count is attributed to the day it was created. Kept as observed
// in production rather than bucketing by click date.
type DailyClicks struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

// MaxPageSize bounds list pagination to protect the store.
const MaxPageSize = 100

type linkService struct {
	repo     repository.LinkRepository
	codegen  *CodeGenerator
	generate func() (string, error)

	// seen pre-filters existence checks: a negative test means the code is
	// definitely free. Mutations hold mu; the filter itself is not safe for
	// concurrent writes.
	mu   sync.Mutex
	seen *bloom.BloomFilter
}

// NewLinkService returns a service backed by the given repository. The
// bloom filter is seeded with every existing short code so most uniqueness
// probes never touch the store.
func NewLinkService(ctx context.Context, repo repository.LinkRepository, codegen *CodeGenerator) (LinkService, error) {
	s := &linkService{
		repo:     repo,
		codegen:  codegen,
		generate: codegen.Generate,
		seen:     bloom.NewWithEstimates(bloomCapacity, bloomFalsePositive),
	}

	codes, err := repo.AllCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("seed code filter: %w", err)
	}
	for _, code := range codes {
		s.seen.AddString(code)
	}
	return s, nil
}

func (s *linkService) Create(ctx context.Context, input CreateLinkInput) (*model.Link, error) {
	if !isValidAbsoluteURL(input.OriginalURL) {
		return nil, ErrInvalidURL
	}

	var (
		code     string
		isCustom = input.CustomCode != ""
	)

	if isCustom {
		if s.codegen.IsReserved(input.CustomCode) {
			return nil, ErrReservedCode
		}
		if !s.codegen.ValidateCustom(input.CustomCode) {
			return nil, ErrInvalidCustomCode
		}
		// Custom aliases are stored lower-cased; comparison is
		// case-insensitive by construction.
		code = strings.ToLower(input.CustomCode)

		taken, err := s.codeExists(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("check custom code: %w", err)
		}
		if taken {
			return nil, ErrCodeTaken
		}
	} else {
		var err error
		code, err = s.reserveGenerated(ctx)
		if err != nil {
			return nil, err
		}
	}

	link := &model.Link{
		ShortCode:      code,
		OriginalURL:    input.OriginalURL,
		CreatedBy:      input.OwnerID,
		CreatedByEmail: input.OwnerEmail,
		Clicks:         0,
		IsCustom:       isCustom,
		CreatedViaAPI:  input.CreatedViaAPI,
		APITokenID:     input.APITokenID,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		return nil, fmt.Errorf("create link: %w", err)
	}

	s.mu.Lock()
	s.seen.AddString(code)
	s.mu.Unlock()

	return link, nil
}

// reserveGenerated draws random codes until one is free, giving up after
// maxGenerateAttempts. The check and the later write are not atomic; the
// unique index on short_code backstops the rare race.
func (s *linkService) reserveGenerated(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := s.generate()
		if err != nil {
			return "", fmt.Errorf("generate code: %w", err)
		}

		taken, err := s.codeExists(ctx, code)
		if err != nil {
			return "", fmt.Errorf("check generated code: %w", err)
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (s *linkService) codeExists(ctx context.Context, code string) (bool, error) {
	s.mu.Lock()
	maybe := s.seen.TestString(code)
	s.mu.Unlock()
	if !maybe {
		return false, nil
	}
	return s.repo.ExistsByCode(ctx, code)
}

func (s *linkService) Get(ctx context.Context, id, ownerID string) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.CreatedBy != ownerID {
		return nil, ErrForbidden
	}
	return link, nil
}

func (s *linkService) List(ctx context.Context, ownerID string, page, pageSize int) ([]model.Link, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	links, err := s.repo.ListByOwner(ctx, ownerID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("list links: %w", err)
	}
	total, err := s.repo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, 0, fmt.Errorf("count links: %w", err)
	}
	return links, total, nil
}

// Delete hard-deletes the link after an ownership check. The deleted record
// is returned so callers can describe it in notifications.
func (s *linkService) Delete(ctx context.Context, id, ownerID string) (*model.Link, error) {
	link, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if link.CreatedBy != ownerID {
		return nil, ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, fmt.Errorf("delete link: %w", err)
	}
	return link, nil
}

// Resolve looks up a short code. Generated codes are matched as stored;
// custom aliases were lower-cased at creation, so a miss is retried with
// the lower-cased input.
func (s *linkService) Resolve(ctx context.Context, code string) (*model.Link, error) {
	link, err := s.repo.GetByCode(ctx, code)
	if err == nil {
		return link, nil
	}
	if !errors.Is(err, repository.ErrLinkNotFound) {
		return nil, err
	}

	lowered := strings.ToLower(code)
	if lowered == code {
		return nil, err
	}
	return s.repo.GetByCode(ctx, lowered)
}

func (s *linkService) Stats(ctx context.Context, ownerID string) (*LinkStats, error) {
	links, err := s.repo.AllByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load links: %w", err)
	}

	stats := &LinkStats{TotalLinks: int64(len(links))}
	for _, l := range links {
		stats.TotalClicks += l.Clicks
	}

	// Links come back newest-first; the five most recent head the list.
	if len(links) > 5 {
		stats.RecentLinks = links[:5]
	} else {
		stats.RecentLinks = links
	}

	now := time.Now()
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		var clicks int64
		for _, l := range links {
			if sameDay(l.CreatedAt, day) {
				clicks += l.Clicks
			}
		}
		stats.ClicksOverTime = append(stats.ClicksOverTime, DailyClicks{
			Date:   day.Format("2006-01-02"),
			Clicks: clicks,
		})
	}

	return stats, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func isValidAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}
