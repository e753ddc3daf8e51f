package main

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

type clientContextKey struct{}

type tokenAuth struct {
	secret []byte
}

func newTokenAuth(secret string) *tokenAuth {
	return &tokenAuth{secret: []byte(secret)}
}

func (a *tokenAuth) enabled() bool {
	return len(a.secret) > 0
}

// issueToken returns base64url(client) "." hex(hmac-sha256(payload)).
func (a *tokenAuth) issueToken(client string) (string, error) {
	if !a.enabled() {
		return "", errors.New("API_TOKEN_SECRET is not set")
	}
	if strings.TrimSpace(client) == "" {
		return "", errors.New("client name is required")
	}

	payload := base64.RawURLEncoding.EncodeToString([]byte(client))
	return payload + "." + a.sign(payload), nil
}

func (a *tokenAuth) sign(payload string) string {
	mac := hmac.New(sha256.New, a.secret)
	_, _ = mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func (a *tokenAuth) verifyToken(token string) (string, bool) {
	payload, signature, ok := strings.Cut(token, ".")
	if !ok || strings.Contains(signature, ".") {
		return "", false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return "", false
	}
	expected, _ := hex.DecodeString(a.sign(payload))
	if !hmac.Equal(provided, expected) {
		return "", false
	}

	decoded, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil || len(decoded) == 0 {
		return "", false
	}

	return string(decoded), true
}

// middleware rejects requests without a valid bearer token. It lets every
// request through when no secret is configured.
func (a *tokenAuth) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		client, ok := a.verifyToken(token)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid bearer token")
			return
		}

		ctx := context.WithValue(r.Context(), clientContextKey{}, client)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func clientFromContext(ctx context.Context) string {
	client, _ := ctx.Value(clientContextKey{}).(string)
	return client
}
