package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/rand"     // secure random number generation
	"encoding/base64" // URL-safe encoding for quick tokens
	"time"            // expiration handling

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// SessionToken represents a signed JWT session token along with its
// expiry.  Session tokens are long-lived (30 days by default) and are
// presented in the Authorization header on protected endpoints.
type SessionToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewSessionToken builds and signs an HS256 JWT for a user.  The claim
// set carries the user id under "uid" plus the standard exp/iat pair.
func NewSessionToken(secret, userID string, ttlDays int) (SessionToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"uid": userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return SessionToken{}, err
	}
	return SessionToken{Token: signed, Exp: exp}, nil
}

// VerifySessionToken parses a session token and returns the embedded
// user id.  It never returns an error: a missing, expired, malformed
// or wrongly signed token simply yields ok=false.  Expiry is enforced
// by the jwt library via the exp claim.
func VerifySessionToken(secret, raw string) (string, bool) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return "", false
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", false
	}
	uid, ok := claims["uid"].(string)
	if !ok || uid == "" {
		return "", false
	}
	return uid, true
}

// NewQuickTokenValue returns a random URL-safe token string built from
// 24 bytes of cryptographically secure entropy.  Quick tokens are
// stored server-side and consumed exactly once.
func NewQuickTokenValue() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
