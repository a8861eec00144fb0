package grantsvc

import (
	"context"
	"time"

	"github.com/Ashish23jun/One-Call/internal/apperr"
	"github.com/Ashish23jun/One-Call/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// VerifyGrant implements spec §4.B's verifyGrant operation. It never
// trusts the alg header: jwt.WithValidMethods pins HS256 at the
// verifier before any signature check runs, so a token whose header
// claims a different (or no) algorithm is rejected outright.
//
// Expiry is checked by hand (jwt.WithoutClaimsValidation) rather than
// relying on the library's built-in exp check: that check treats a
// token expired only once "now" is strictly after exp, but spec §8
// requires a token whose exp is exactly now to be rejected too.
func (iss *Issuer) VerifyGrant(ctx context.Context, token string) (domain.GrantClaims, error) {
	var claims tokenClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (interface{}, error) {
		return iss.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithoutClaimsValidation(),
	)

	if err != nil || !parsed.Valid {
		return domain.GrantClaims{}, apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "grant signature or claims invalid")
	}

	if err := validateClaims(claims); err != nil {
		return domain.GrantClaims{}, err
	}

	if time.Now().UTC().Unix() >= claims.ExpireAt {
		return domain.GrantClaims{}, apperr.New(apperr.Unauthorized, apperr.CodeTokenExpired, "grant expired")
	}

	if iss.revoker.IsRevoked(ctx, claims.GrantID) {
		return domain.GrantClaims{}, apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "grant revoked")
	}

	return claimsToDomain(claims), nil
}

func validateClaims(c tokenClaims) error {
	if c.GrantID == "" || c.TenantID == "" || c.RoomID == "" || c.UserID == "" {
		return apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "grant claims malformed")
	}
	if !domain.ValidRole(c.Role) {
		return apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "grant role unknown")
	}
	if c.ExpireAt <= c.IssuedAt {
		return apperr.New(apperr.Unauthorized, apperr.CodeInvalidToken, "grant expiry not after issuance")
	}
	return nil
}
