package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/grimoire.cards/internal/platform/errors"
	"github.com/louisbranch/grimoire.cards/internal/services/grimoire/domain/deck"
)

const minShareSecretBytes = 32

// shareEnv holds raw env values before post-parse validation.
type shareEnv struct {
	Issuer   string        `env:"GRIMOIRE_CARDS_SHARE_ISSUER"`
	Audience string        `env:"GRIMOIRE_CARDS_SHARE_AUDIENCE"`
	Secret   string        `env:"GRIMOIRE_CARDS_SHARE_SECRET"`
	TTL      time.Duration `env:"GRIMOIRE_CARDS_SHARE_TTL"      envDefault:"168h"`
}

// ShareConfig defines how deck share grants are signed and verified.
type ShareConfig struct {
	Issuer   string
	Audience string
	Secret   []byte
	TTL      time.Duration
}

// LoadShareConfigFromEnv reads share grant configuration. It reports ok=false
// with no error when the feature is simply not configured.
func LoadShareConfigFromEnv() (ShareConfig, bool, error) {
	var raw shareEnv
	if err := env.Parse(&raw); err != nil {
		return ShareConfig{}, false, fmt.Errorf("parse share grant env: %w", err)
	}
	issuer := strings.TrimSpace(raw.Issuer)
	audience := strings.TrimSpace(raw.Audience)
	secret := strings.TrimSpace(raw.Secret)
	if issuer == "" && audience == "" && secret == "" {
		return ShareConfig{}, false, nil
	}
	if issuer == "" {
		return ShareConfig{}, false, fmt.Errorf("GRIMOIRE_CARDS_SHARE_ISSUER is required")
	}
	if audience == "" {
		return ShareConfig{}, false, fmt.Errorf("GRIMOIRE_CARDS_SHARE_AUDIENCE is required")
	}
	if len(secret) < minShareSecretBytes {
		return ShareConfig{}, false, fmt.Errorf("GRIMOIRE_CARDS_SHARE_SECRET must be at least %d bytes", minShareSecretBytes)
	}
	if raw.TTL <= 0 {
		return ShareConfig{}, false, fmt.Errorf("share grant ttl must be positive")
	}
	return ShareConfig{
		Issuer:   issuer,
		Audience: audience,
		Secret:   []byte(secret),
		TTL:      raw.TTL,
	}, true, nil
}

// shareClaims is the internal claims type used for JWT parsing.
type shareClaims struct {
	jwt.RegisteredClaims
	Deck deck.Snapshot `json:"deck"`
}

// ExportShare signs the current deck snapshot into a share grant token.
func (s *Service) ExportShare(ctx context.Context, name string) (string, error) {
	_, span := s.span(ctx, "ExportShare")
	defer span.End()

	if s.shareCfg == nil {
		return "", apperrors.New(apperrors.CodeShareGrantInvalid, "share grants are not configured")
	}

	s.mu.Lock()
	snapshot := deck.NewSnapshot(s.state, name)
	s.mu.Unlock()

	now := s.now().UTC()
	jti, err := randomTokenID()
	if err != nil {
		return "", fmt.Errorf("generate share grant id: %w", err)
	}
	claims := shareClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.shareCfg.Issuer,
			Audience:  jwt.ClaimStrings{s.shareCfg.Audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.shareCfg.TTL)),
			ID:        jti,
		},
		Deck: snapshot,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.shareCfg.Secret)
	if err != nil {
		return "", fmt.Errorf("sign share grant: %w", err)
	}
	return signed, nil
}

// ImportShare validates a share grant and replaces the session deck with its
// snapshot. Unlocked aspects are kept from the current session.
func (s *Service) ImportShare(ctx context.Context, grant string) error {
	_, span := s.span(ctx, "ImportShare")
	defer span.End()

	if s.shareCfg == nil {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grants are not configured")
	}
	snapshot, err := validateShareGrant(grant, *s.shareCfg, s.now)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	unlocked := s.state.Unlocked
	s.state = deck.Rehydrate(s.cat, snapshot)
	for slug := range unlocked {
		s.state.Unlocked[slug] = struct{}{}
	}
	s.pending = nil
	return nil
}

// validateShareGrant verifies a share grant token and returns its snapshot.
func validateShareGrant(grant string, cfg ShareConfig, now func() time.Time) (deck.Snapshot, error) {
	grant = strings.TrimSpace(grant)
	if grant == "" {
		return deck.Snapshot{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant is required")
	}
	if now == nil {
		now = time.Now
	}

	var parsed shareClaims
	_, err := jwt.ParseWithClaims(grant, &parsed, func(token *jwt.Token) (any, error) {
		return cfg.Secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return deck.Snapshot{}, mapJWTError(err)
	}

	if parsed.Issuer == "" || parsed.Issuer != cfg.Issuer {
		return deck.Snapshot{}, apperrors.WithMetadata(
			apperrors.CodeShareGrantMismatch,
			"share grant issuer mismatch",
			map[string]string{"Field": "issuer"},
		)
	}
	if !audienceContains(parsed.Audience, cfg.Audience) {
		return deck.Snapshot{}, apperrors.WithMetadata(
			apperrors.CodeShareGrantMismatch,
			"share grant audience mismatch",
			map[string]string{"Field": "audience"},
		)
	}
	if parsed.ID == "" {
		return deck.Snapshot{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant jti is required")
	}
	if parsed.ExpiresAt == nil {
		return deck.Snapshot{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant exp is required")
	}
	if !parsed.ExpiresAt.Time.UTC().After(now().UTC()) {
		return deck.Snapshot{}, apperrors.New(apperrors.CodeShareGrantExpired, "share grant is expired")
	}
	if parsed.Deck.Version != deck.SnapshotVersion {
		return deck.Snapshot{}, apperrors.New(apperrors.CodeShareGrantInvalid, "share grant deck version is unsupported")
	}
	return parsed.Deck, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant signature is invalid")
	}
	if errors.Is(err, jwt.ErrTokenUnverifiable) {
		return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant alg is invalid")
	}
	return apperrors.New(apperrors.CodeShareGrantInvalid, "share grant is invalid")
}

// audienceContains reports whether the audience list contains the given value.
func audienceContains(aud jwt.ClaimStrings, value string) bool {
	for _, item := range aud {
		if item == value {
			return true
		}
	}
	return false
}

func randomTokenID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
