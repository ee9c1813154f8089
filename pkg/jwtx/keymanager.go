package jwtx

import (
	"fmt"
	"math/rand/v2"

	"github.com/aussiebroadwan/lectern/pkg/cryptox"
)

const maxKeys = 10

// KeyManager owns the signing keys of one service instance and the
// KeySet/Verifier built from them.
type KeyManager struct {
	Verifier Verifier
	KeySet   *KeySet

	signers []Signer
}

// KeyManagerOptions configures NewEphemeralKeyManager.
type KeyManagerOptions struct {
	// Issuer is the iss claim tokens are checked against. Required.
	Issuer string

	// Audience values required in aud. Empty means no check.
	Audience []string

	// NumKeys is the number of signing keys, clamped to [1, 10].
	NumKeys int
}

// NewEphemeralKeyManager generates Ed25519 keys in memory. Sessions do not
// survive a restart; clients sign in again.
func NewEphemeralKeyManager(opts KeyManagerOptions) (*KeyManager, error) {
	if opts.Issuer == "" {
		return nil, fmt.Errorf("jwtx: Issuer is required")
	}
	n := min(max(opts.NumKeys, 1), maxKeys)

	keyset := NewKeySet()
	signers := make([]Signer, 0, n)

	for i := range n {
		kid, err := cryptox.GenerateToken(cryptox.TokenSize128)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key ID: %w", err)
		}
		pemKey, err := cryptox.GenerateEd25519Key()
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to generate key %d: %w", i+1, err)
		}
		signer, err := NewSignerEdDSA("lectern-"+kid, pemKey)
		if err != nil {
			return nil, fmt.Errorf("jwtx: failed to load key %d: %w", i+1, err)
		}
		if err := keyset.AddSigner(signer); err != nil {
			return nil, fmt.Errorf("jwtx: failed to publish key %d: %w", i+1, err)
		}
		signers = append(signers, signer)
	}

	return &KeyManager{
		Verifier: NewVerifierEdDSA(keyset, opts.Issuer, opts.Audience),
		KeySet:   keyset,
		signers:  signers,
	}, nil
}

// GetSigner returns one of the signing keys at random.
func (km *KeyManager) GetSigner() Signer {
	if len(km.signers) == 1 {
		return km.signers[0]
	}
	return km.signers[rand.IntN(len(km.signers))]
}

// NumSigners returns the number of signing keys.
func (km *KeyManager) NumSigners() int { return len(km.signers) }

// IsReady reports whether keys are loaded.
func (km *KeyManager) IsReady() bool { return km.KeySet.IsReady() }
