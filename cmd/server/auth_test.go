package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/bomengine/internal/config"
)

func TestTokenRoundTrip(t *testing.T) {
	auth := newTokenAuth("s3cret")

	token, err := auth.issueToken("planning-app")
	require.NoError(t, err)

	client, ok := auth.verifyToken(token)
	require.True(t, ok)
	assert.Equal(t, "planning-app", client)
}

func TestVerifyTokenRejectsTampering(t *testing.T) {
	auth := newTokenAuth("s3cret")
	token, err := auth.issueToken("planning-app")
	require.NoError(t, err)

	payload, signature, _ := strings.Cut(token, ".")
	forged, err := auth.issueToken("admin")
	require.NoError(t, err)
	forgedPayload, _, _ := strings.Cut(forged, ".")

	for name, candidate := range map[string]string{
		"empty":           "",
		"no signature":    payload,
		"swapped payload": forgedPayload + "." + signature,
		"bad hex":         payload + ".zz",
		"extra segment":   token + ".00",
	} {
		_, ok := auth.verifyToken(candidate)
		assert.False(t, ok, name)
	}

	_, ok := newTokenAuth("other").verifyToken(token)
	assert.False(t, ok, "different secret")
}

func TestIssueTokenRequiresSecretAndClient(t *testing.T) {
	_, err := newTokenAuth("").issueToken("app")
	require.Error(t, err)

	_, err = newTokenAuth("s3cret").issueToken("  ")
	require.Error(t, err)
}

func TestPrintToken(t *testing.T) {
	var out bytes.Buffer
	cfg := config.Config{APITokenSecret: "s3cret"}

	require.NoError(t, printToken(cfg, []string{"mrp"}, &out))

	client, ok := newTokenAuth("s3cret").verifyToken(strings.TrimSpace(out.String()))
	require.True(t, ok)
	assert.Equal(t, "mrp", client)

	assert.Error(t, printToken(cfg, nil, &out))
}
