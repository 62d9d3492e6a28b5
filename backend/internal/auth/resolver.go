// Package auth resolves caller credentials to user identifiers. The shipped
// configuration maps a single fixed bearer token to a single user, but the
// Resolver interface and the token registry accept any number of identities
// without changes elsewhere.
package auth

import "crypto/subtle"

// Resolver maps a bearer credential to a user identifier.
type Resolver interface {
	Resolve(token string) (userID string, ok bool)
}

// StaticTokens resolves opaque API tokens from a fixed registry.
type StaticTokens struct {
	tokens map[string]string // token -> userID
}

// NewStaticTokens builds a registry from a token -> userID map.
func NewStaticTokens(tokens map[string]string) *StaticTokens {
	m := make(map[string]string, len(tokens))
	for t, uid := range tokens {
		m[t] = uid
	}
	return &StaticTokens{tokens: m}
}

// Resolve compares the presented token against every registered one in
// constant time, so response timing leaks nothing about near-miss tokens.
func (s *StaticTokens) Resolve(token string) (string, bool) {
	for t, uid := range s.tokens {
		if subtle.ConstantTimeCompare([]byte(t), []byte(token)) == 1 {
			return uid, true
		}
	}
	return "", false
}
