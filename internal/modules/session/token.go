package session

import (
	"encoding/json"
	"strconv"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

// decodeClaims reads a token's payload without verifying the signature; the
// client never holds the signing key. The parser tolerates the base64url
// alphabet and missing padding.
func decodeClaims(token string) (jwtlib.MapClaims, error) {
	claims := jwtlib.MapClaims{}
	if _, _, err := jwtlib.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// tokenExpiry returns the exp claim as a time, or nil when the claim is
// absent. Decode failures read as "no expiry data".
func tokenExpiry(claims jwtlib.MapClaims) *time.Time {
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	t := exp.Time
	return &t
}

// tokenUserID resolves the identity claim, checking userId, then user_id,
// then a numeric sub. Returns nil when none resolves to a number.
func tokenUserID(claims jwtlib.MapClaims) *int64 {
	for _, field := range []string{"userId", "user_id", "sub"} {
		if v, ok := claims[field]; ok {
			if id, ok := claimInt64(v); ok {
				return &id
			}
		}
	}
	return nil
}

func claimInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
