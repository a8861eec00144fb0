// Package grantsvc implements spec §4.B: the Grant Issuer and its
// verifier. Grants are signed JSON Web Tokens carrying the claims in
// spec §6, stateless to verify and individually identifiable by jti.
package grantsvc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/Ashish23jun/One-Call/internal/roomstore"
	"github.com/golang-jwt/jwt/v5"
)

// Issuer mints and verifies grant tokens under a single shared signing
// secret, known only to this process and, in a multi-instance
// deployment, every signaling-endpoint instance that must verify them.
type Issuer struct {
	secret  []byte
	rooms   roomstore.Store
	revoker Revoker
}

// Revoker vetoes specific grant-ids without rotating the signing key.
// Spec §9 calls this out as forward-looking: no revocation store is
// part of this spec, so the default wiring passes AllowAll{}.
type Revoker interface {
	IsRevoked(ctx context.Context, grantID string) bool
}

// AllowAll is the no-op Revoker used when no revocation store exists.
type AllowAll struct{}

func (AllowAll) IsRevoked(ctx context.Context, grantID string) bool { return false }

// NewIssuer builds an Issuer. secret must be non-empty; callers should
// refuse to start rather than construct an Issuer with an empty secret
// (config.Load already enforces this in release mode).
func NewIssuer(secret string, rooms roomstore.Store, revoker Revoker) *Issuer {
	if revoker == nil {
		revoker = AllowAll{}
	}
	return &Issuer{secret: []byte(secret), rooms: rooms, revoker: revoker}
}

// IssueGrant implements spec §4.B's issueGrant operation. callerTenantID
// must already be authenticated (the REST handler does this via
// tenantstore.Store.VerifySecret before calling here).
func (iss *Issuer) IssueGrant(ctx context.Context, callerTenantID, roomID, userID string, role domain.Role, ttl string) (string, time.Time, error) {
	if err := validateUserID(userID); err != nil {
		return "", time.Time{}, err
	}
	if !domain.ValidRole(role) {
		return "", time.Time{}, apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "unknown role")
	}
	dur, err := ParseTTL(ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	room, err := iss.rooms.Get(ctx, roomID)
	if err != nil {
		return "", time.Time{}, apperr.New(apperr.NotFound, apperr.CodeNotFound, "room not found")
	}
	if room.TenantID != callerTenantID {
		return "", time.Time{}, apperr.New(apperr.Forbidden, apperr.CodeTenantMismatch, "room belongs to another tenant")
	}

	now := time.Now().UTC()
	exp := now.Add(dur)
	grantID, err := randomGrantID()
	if err != nil {
		return "", time.Time{}, apperr.As(err)
	}

	claims := domainToClaims(domain.GrantClaims{
		GrantID:  grantID,
		TenantID: callerTenantID,
		RoomID:   roomID,
		UserID:   userID,
		Role:     role,
		IssuedAt: now.Unix(),
		ExpireAt: exp.Unix(),
	})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(iss.secret)
	if err != nil {
		return "", time.Time{}, apperr.As(err)
	}
	return signed, exp, nil
}

func validateUserID(userID string) error {
	if userID == "" {
		return apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "userId must not be empty")
	}
	if len(userID) > domain.MaxUserIDLen {
		return apperr.New(apperr.Validation, apperr.CodeInvalidMessage, "userId too long")
	}
	return nil
}

// randomGrantID generates a 128-bit random hex identifier for jti.
func randomGrantID() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
