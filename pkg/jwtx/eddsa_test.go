package jwtx_test

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSigner(t *testing.T, kid string) *jwtx.EdDSASigner {
	t.Helper()
	pemKey, err := cryptox.GenerateEd25519Key()
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA(kid, pemKey)
	require.NoError(t, err)
	return signer
}

func sessionClaims(now time.Time, ttl time.Duration) jwtx.Claims {
	return jwtx.NewSessionClaims(jwtx.SessionParams{
		Subject:  "user-456",
		Email:    "grace@example.edu",
		Name:     "Grace",
		Role:     "TEACHER",
		Scopes:   []string{"courses:read", "invites:write"},
		AMR:      []string{"pwd"},
		Issuer:   exampleIssuer,
		Audience: []string{"lectern"},
		TTL:      ttl,
		Now:      now,
	})
}

func TestEdDSASignAndVerify(t *testing.T) {
	signer := newSigner(t, "test-key-eddsa")
	require.Equal(t, "EdDSA", signer.Alg())
	require.Equal(t, "test-key-eddsa", signer.KID())

	token, err := signer.Sign(sessionClaims(time.Now().UTC(), 5*time.Minute))
	require.NoError(t, err)

	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	jwks := keyset.PublicJWKS()
	require.Len(t, jwks.Keys, 1)
	require.Equal(t, "OKP", jwks.Keys[0].Kty)
	require.Equal(t, "Ed25519", jwks.Keys[0].Crv)

	verifier := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, []string{"lectern"})
	claims, err := verifier.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-456", claims.Subject)
	require.Equal(t, "grace@example.edu", claims.Email)
	require.Equal(t, "TEACHER", claims.Role)
	require.Equal(t, []string{"pwd"}, claims.AMR)
}

func TestEdDSAVerifyRejects(t *testing.T) {
	signer := newSigner(t, "k1")
	keyset := jwtx.NewKeySet()
	require.NoError(t, keyset.AddSigner(signer))

	t.Run("wrong issuer", func(t *testing.T) {
		token, err := signer.Sign(sessionClaims(time.Now().UTC(), time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keyset, "https://other", nil).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrIssuer)
	})

	t.Run("wrong audience", func(t *testing.T) {
		token, err := signer.Sign(sessionClaims(time.Now().UTC(), time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keyset, exampleIssuer, []string{"gradebook"}).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrAudience)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := signer.Sign(sessionClaims(time.Now().UTC().Add(-time.Hour), time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrExpired)
	})

	t.Run("unknown kid", func(t *testing.T) {
		other := newSigner(t, "k2")
		token, err := other.Sign(sessionClaims(time.Now().UTC(), time.Minute))
		require.NoError(t, err)
		_, err = jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify(token)
		require.ErrorIs(t, err, jwtx.ErrUnknownKID)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := jwtx.NewVerifierEdDSA(keyset, exampleIssuer, nil).Verify("not.a.jwt")
		require.Error(t, err)
	})
}

func TestNewSignerEdDSAInvalidPEM(t *testing.T) {
	_, err := jwtx.NewSignerEdDSA("k", []byte("nope"))
	require.Error(t, err)
}

func TestJWKRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	jwk := jwtx.NewEd25519JWK("k", pub)
	got, err := jwk.PublicKey()
	require.NoError(t, err)
	require.Equal(t, pub, got)

	_, err = jwtx.JWK{Kty: "RSA"}.PublicKey()
	require.Error(t, err)
}

func TestKeySetResetFromJWKS(t *testing.T) {
	a, b := newSigner(t, "a"), newSigner(t, "b")

	keyset := jwtx.NewKeySet()
	require.False(t, keyset.IsReady())
	require.NoError(t, keyset.AddSigner(a))

	require.NoError(t, keyset.ResetFromJWKS(jwtx.JWKS{Keys: []jwtx.JWK{b.PublicJWK()}}))
	_, err := keyset.Get("a")
	require.ErrorIs(t, err, jwtx.ErrNoKey)
	_, err = keyset.Get("b")
	require.NoError(t, err)
	require.True(t, keyset.IsReady())
}
