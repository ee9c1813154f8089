package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/lectern/internal/auth/store"
	"github.com/aussiebroadwan/lectern/pkg/authsdk"
	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/httpx"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
)

// JWKSHandler publishes the Ed25519 keys that verify session tokens, so
// the course frontend can check sessions without calling back.
//
//	@Summary		Get JWKS
//	@Description	Returns the JSON Web Key Set used to verify session tokens.
//	@Tags			well-known
//	@Produce		json
//	@Success		200	{object}	authsdk.JWKSResponse	"The JSON Web Key Set"
//	@Router			/.well-known/jwks.json [get].
func JWKSHandler(keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		httpx.WriteJSON(w, http.StatusOK, authsdk.JWKSResponse(keys.PublicJWKS()))
	}
}

// LivezHandler godoc
//
//	@Summary		Liveness probe
//	@Description	Always 200 while the process is serving.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version"
//	@Router			/livez [get].
func LivezHandler(started time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, health(started, version, "ok", nil))
	}
}

// ReadyzHandler godoc
//
//	@Summary		Readiness probe
//	@Description	503 unless the database answers and session signing keys are loaded. An ephemeral invite master key is reported but does not fail the probe.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	authsdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	authsdk.HealthResponse	"at least one check failed"
//	@Router			/readyz [get].
func ReadyzHandler(started time.Time, version string, st store.Store, keys *jwtx.KeySet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := authsdk.HealthChecks{Database: "ok", Signer: "ok", MasterKey: "ok"}
		ready := true

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			ready = false
		}
		if !keys.IsReady() {
			checks.Signer = "error: no keys loaded"
			ready = false
		}
		if cryptox.MasterKeyIsEphemeral() {
			checks.MasterKey = "ephemeral"
		}

		if !ready {
			httpx.WriteJSON(w, http.StatusServiceUnavailable, health(started, version, "degraded", &checks))
			return
		}
		httpx.WriteJSON(w, http.StatusOK, health(started, version, "ok", &checks))
	}
}

func health(started time.Time, version, status string, checks *authsdk.HealthChecks) authsdk.HealthResponse {
	return authsdk.HealthResponse{
		Status:  status,
		Uptime:  time.Since(started).Round(time.Second).String(),
		Version: version,
		Checks:  checks,
	}
}
