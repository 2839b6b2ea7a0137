package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/domain"
	"github.com/Harsh-Mahajan8/Patient-Healthcare-Monitoring-System/internal/store"

	"go.uber.org/zap"
)

// IdentityResolver maps an optional bearer credential to the caller
// identity. Resolution never fails: a missing, invalid or unknown
// credential is Guest, not an error. The core never inspects credential
// internals beyond hashing it for lookup.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) domain.Identity
}

const tokenKeyPrefix = "auth:token:"

// TokenResolver resolves bearer tokens through the KV store. Tokens are
// stored hashed (sha256, hex) so a KV dump never leaks usable
// credentials.
type TokenResolver struct {
	kv     store.KV
	logger *zap.Logger
}

func NewTokenResolver(kv store.KV, logger *zap.Logger) *TokenResolver {
	return &TokenResolver{kv: kv, logger: logger}
}

var _ IdentityResolver = (*TokenResolver)(nil)

func (r *TokenResolver) Resolve(ctx context.Context, credential string) domain.Identity {
	if credential == "" {
		return domain.Guest
	}
	ownerID, err := r.kv.Get(ctx, tokenKeyPrefix+sha256Hex(credential))
	if err != nil {
		if !errors.Is(err, store.ErrMiss) {
			r.logger.Warn("Token lookup failed, treating caller as guest", zap.Error(err))
		}
		return domain.Guest
	}
	if ownerID == "" {
		return domain.Guest
	}
	return domain.AuthenticatedIdentity(ownerID)
}

// RegisterToken provisions a token for an owner. ttl 0 means no expiry.
// Used by dev seeding and the auth service that issues tokens.
func (r *TokenResolver) RegisterToken(ctx context.Context, token, ownerID string, ttl time.Duration) error {
	return r.kv.Set(ctx, tokenKeyPrefix+sha256Hex(token), ownerID, ttl)
}

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
