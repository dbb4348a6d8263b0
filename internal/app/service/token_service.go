package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/keremkk/kisalink/internal/app/model"
	"github.com/keremkk/kisalink/internal/app/repository"
	"go.uber.org/zap"
)

// Authentication-path errors. Handlers map these onto 401/403/429.
var (
	ErrTokenInvalid     = errors.New("invalid or inactive api token")
	ErrTokenExpired     = errors.New("api token has expired")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrPermissionDenied = errors.New("insufficient permissions")
)

const rateLimitWindow = time.Hour

// TokenService authenticates bearer tokens, enforces the per-token hourly
// rate limit and writes the usage ledger.
type TokenService interface {
	Authenticate(ctx context.Context, raw string) (*model.APIToken, error)
	RequirePermission(token *model.APIToken, resource, action string) error
	LogUsage(ctx context.Context, token *model.APIToken, endpoint, method string, statusCode int)
}

type tokenService struct {
	logger *zap.Logger
	repo   repository.TokenRepository
	now    func() time.Time
}

// NewTokenService returns a service backed by the given repository.
func NewTokenService(logger *zap.Logger, repo repository.TokenRepository) TokenService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenService{
		logger: logger,
		repo:   repo,
		now:    time.Now,
	}
}

// Authenticate validates the credential, checks expiry, then counts usage
// rows in the trailing hour against the token's rate limit.
func (s *tokenService) Authenticate(ctx context.Context, raw string) (*model.APIToken, error) {
	if raw == "" || !strings.HasPrefix(raw, model.TokenPrefix) {
		return nil, ErrTokenInvalid
	}

	token, err := s.repo.GetActiveByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return nil, ErrTokenInvalid
		}
		return nil, fmt.Errorf("load token: %w", err)
	}

	now := s.now()
	if token.ExpiresAt != nil && now.After(*token.ExpiresAt) {
		return nil, ErrTokenExpired
	}

	used, err := s.repo.CountUsageSince(ctx, token.ID, now.Add(-rateLimitWindow))
	if err != nil {
		return nil, fmt.Errorf("count usage: %w", err)
	}
	if used >= int64(token.RateLimit) {
		return nil, ErrRateLimited
	}

	if err := s.repo.TouchUsage(ctx, token.ID, now); err != nil {
		// Bookkeeping only; the call itself proceeds.
		s.logger.Warn("failed to touch token usage",
			zap.String("token_id", token.ID),
			zap.Error(err))
	}

	return token, nil
}

func (s *tokenService) RequirePermission(token *model.APIToken, resource, action string) error {
	if !token.Permissions.Allows(resource, action) {
		return ErrPermissionDenied
	}
	return nil
}

// LogUsage appends one ledger row per call, success or failure. The same
// rows drive the rate limit, so every logged call counts toward the window.
func (s *tokenService) LogUsage(ctx context.Context, token *model.APIToken, endpoint, method string, statusCode int) {
	usage := &model.APIUsage{
		TokenID:    token.ID,
		UserID:     token.UserID,
		Endpoint:   endpoint,
		Method:     method,
		StatusCode: statusCode,
		Timestamp:  s.now(),
	}
	if err := s.repo.LogUsage(ctx, usage); err != nil {
		s.logger.Warn("failed to log api usage",
			zap.String("token_id", token.ID),
			zap.String("endpoint", endpoint),
			zap.Error(err))
	}
}

// GenerateAPIToken mints a new credential in the lks_ format.
func GenerateAPIToken() (string, error) {
	var b strings.Builder
	b.Grow(len(model.TokenPrefix) + model.TokenRandomLength)
	b.WriteString(model.TokenPrefix)
	for i := 0; i < model.TokenRandomLength; i++ {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[j.Int64()])
	}
	return b.String(), nil
}
