package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/lectern/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestEphemeralKeyManager(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer, NumKeys: 3})
	require.NoError(t, err)
	require.Equal(t, 3, km.NumSigners())
	require.True(t, km.IsReady())
	require.Len(t, km.KeySet.PublicJWKS().Keys, 3)

	for range 10 {
		s := km.GetSigner()
		require.True(t, strings.HasPrefix(s.KID(), "lectern-"))

		token, err := s.Sign(sessionClaims(time.Now().UTC(), time.Minute))
		require.NoError(t, err)
		_, err = km.Verifier.Verify(token)
		require.NoError(t, err)
	}
}

func TestEphemeralKeyManagerClamps(t *testing.T) {
	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer})
	require.NoError(t, err)
	require.Equal(t, 1, km.NumSigners())

	km, err = jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{Issuer: exampleIssuer, NumKeys: 50})
	require.NoError(t, err)
	require.Equal(t, 10, km.NumSigners())
}

func TestEphemeralKeyManagerRequiresIssuer(t *testing.T) {
	_, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{})
	require.Error(t, err)
}
