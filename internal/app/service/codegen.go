package service

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"
)

const (
	// GeneratedCodeLength is the length of random short codes.
	GeneratedCodeLength = 6

	codeAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// DefaultReservedCodes are system route names a custom alias may not shadow.
var DefaultReservedCodes = []string{
	"admin", "api", "www", "mail", "ftp", "localhost",
	"dashboard", "login", "register", "signup", "signin",
	"auth", "callback", "settings", "profile", "account",
	"help", "support", "about", "contact",
	"privacy", "terms", "legal", "blog", "news",
}

var customCodePattern = regexp.MustCompile(`^[a-z0-9\-_]{3,20}$`)

// CodeGenerator produces random short codes and validates custom aliases.
// All methods are safe for concurrent use.
type CodeGenerator struct {
	reserved map[string]struct{}
}

// NewCodeGenerator builds a generator with the given reserved-word list.
// A nil list falls back to DefaultReservedCodes.
func NewCodeGenerator(reserved []string) *CodeGenerator {
	if reserved == nil {
		reserved = DefaultReservedCodes
	}
	set := make(map[string]struct{}, len(reserved))
	for _, w := range reserved {
		set[strings.ToLower(w)] = struct{}{}
	}
	return &CodeGenerator{reserved: set}
}

// Generate returns a 6-character code drawn uniformly from [a-zA-Z0-9].
func (g *CodeGenerator) Generate() (string, error) {
	var b strings.Builder
	b.Grow(GeneratedCodeLength)
	for i := 0; i < GeneratedCodeLength; i++ {
		j, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[j.Int64()])
	}
	return b.String(), nil
}

// ValidateCustom reports whether candidate is an acceptable custom alias.
// Candidates are lower-cased before checking, matching how custom codes
// are normalized at creation time.
func (g *CodeGenerator) ValidateCustom(candidate string) bool {
	candidate = strings.ToLower(candidate)
	if !customCodePattern.MatchString(candidate) {
		return false
	}
	_, taken := g.reserved[candidate]
	return !taken
}

// IsReserved reports whether candidate collides with a system route name.
func (g *CodeGenerator) IsReserved(candidate string) bool {
	_, taken := g.reserved[strings.ToLower(candidate)]
	return taken
}
