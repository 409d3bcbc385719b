// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// minTokenTTL keeps a nearly expired token around long enough for the remote
// API to reject it, which is what triggers the regular teardown path.
const minTokenTTL = time.Minute

// TokenTTL caps the storage expiry at the token's own expiry when the token
// happens to be a JWT carrying "exp". The token is otherwise opaque and its
// signature is never checked here.
func TokenTTL(token string, max time.Duration, now time.Time) time.Duration {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return max
	}

	remaining := claims.ExpiresAt.Sub(now)
	switch {
	case remaining < minTokenTTL:
		return minTokenTTL
	case remaining < max:
		return remaining
	default:
		return max
	}
}
