package app

import (
	"fmt"
	"log/slog"

	"github.com/aussiebroadwan/lectern/pkg/cryptox"
	"github.com/aussiebroadwan/lectern/pkg/jwtx"
)

// InitKeys configures the invite master key and generates the session
// signing keys.
//
// The master key seals invite tokens at rest so pending invites can be
// reissued, listed and re-sent with their link. It is read from
// LECTERN_MASTER_KEY_PATH (created when missing). An empty path keeps it in
// memory only, and those links are lost on restart.
//
// Signing keys are always ephemeral: sessions do not survive a restart and
// clients sign in again.
func InitKeys(cfg Config, logger *slog.Logger) (*jwtx.KeyManager, error) {
	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", slog.String("path", cfg.MasterKeyPath))
	}
	if cryptox.MasterKeyIsEphemeral() {
		logger.Warn("invite master key is ephemeral, pending invite links cannot be rebuilt after a restart")
	}

	keyManager, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:  cfg.Issuer,
		NumKeys: cfg.NumKeys,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session keys: %w", err)
	}

	logger.Info("generated session signing keys",
		slog.Int("num_keys", keyManager.NumSigners()),
		slog.String("issuer", cfg.Issuer),
	)
	return keyManager, nil
}
