//go:build e2e

package lectern_test

import (
	"testing"

	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

// TestReadyzEndpoint checks readiness. The image points the master key at
// a file under /data, so the key is persistent.
func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Signer)
	require.Equal(t, "ok", health.Checks.MasterKey)
}

func TestJWKSEndpoint(t *testing.T) {
	baseURL, cleanup := setupLecternContainer(t)
	defer cleanup()

	client := authsdk.NewSDKClient(baseURL)

	jwks, err := client.GetJWKS(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, jwks.Keys, "JWKS should contain at least one key")

	for _, key := range jwks.Keys {
		require.Equal(t, "EdDSA", key.Alg)
		require.Equal(t, "sig", key.Use)
	}
}
