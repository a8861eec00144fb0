package grantsvc

import (
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// tokenClaims is the exact JWT payload shape spec §6 names: jti,
// appId, roomId, userId, role, iat, exp — nothing else. It implements
// jwt.Claims by hand instead of embedding jwt.RegisteredClaims, so the
// wire payload carries only the seven fields the spec specifies.
type tokenClaims struct {
	GrantID  string      `json:"jti"`
	TenantID string      `json:"appId"`
	RoomID   string      `json:"roomId"`
	UserID   string      `json:"userId"`
	Role     domain.Role `json:"role"`
	IssuedAt int64       `json:"iat"`
	ExpireAt int64       `json:"exp"`
}

func (c tokenClaims) GetExpirationTime() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(unixTime(c.ExpireAt)), nil
}

func (c tokenClaims) GetIssuedAt() (*jwt.NumericDate, error) {
	return jwt.NewNumericDate(unixTime(c.IssuedAt)), nil
}

func (c tokenClaims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }
func (c tokenClaims) GetIssuer() (string, error)              { return "", nil }
func (c tokenClaims) GetSubject() (string, error)              { return "", nil }
func (c tokenClaims) GetAudience() (jwt.ClaimStrings, error)   { return nil, nil }

func claimsToDomain(c tokenClaims) domain.GrantClaims {
	return domain.GrantClaims{
		GrantID:  c.GrantID,
		TenantID: c.TenantID,
		RoomID:   c.RoomID,
		UserID:   c.UserID,
		Role:     c.Role,
		IssuedAt: c.IssuedAt,
		ExpireAt: c.ExpireAt,
	}
}

func domainToClaims(c domain.GrantClaims) tokenClaims {
	return tokenClaims{
		GrantID:  c.GrantID,
		TenantID: c.TenantID,
		RoomID:   c.RoomID,
		UserID:   c.UserID,
		Role:     c.Role,
		IssuedAt: c.IssuedAt,
		ExpireAt: c.ExpireAt,
	}
}
