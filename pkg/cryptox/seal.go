package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

// ErrUnsealFailed is returned when a sealed value cannot be opened with the
// current master key (wrong key, truncated or tampered ciphertext).
var ErrUnsealFailed = errors.New("cryptox: unseal failed")

var (
	masterKeyMu   sync.Mutex
	masterKey     []byte
	masterKeyPath string
)

// SetMasterKeyPath configures the file the master key is loaded from. The
// file is created with a random key when missing. Resets any loaded key.
func SetMasterKeyPath(path string) {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	masterKeyPath = path
	masterKey = nil
}

// MasterKeyIsEphemeral reports whether sealing will use a per-process key,
// meaning sealed values will not survive a restart.
func MasterKeyIsEphemeral() bool {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	return masterKeyPath == "" && os.Getenv("LECTERN_MASTER_KEY") == ""
}

// loadMasterKey derives a 32-byte AES-256 key from, in order: the key file,
// the LECTERN_MASTER_KEY environment variable, or a random per-process key.
func loadMasterKey() ([]byte, error) {
	var material []byte

	switch {
	case masterKeyPath != "":
		s, err := loadOrGenerateSecretFile(masterKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load master key file: %w", err)
		}
		material = []byte(s)
	case os.Getenv("LECTERN_MASTER_KEY") != "":
		material = []byte(os.Getenv("LECTERN_MASTER_KEY"))
	default:
		material = make([]byte, 32)
		if _, err := rand.Read(material); err != nil {
			return nil, fmt.Errorf("failed to generate ephemeral master key: %w", err)
		}
	}

	sum := sha256.Sum256(material)
	return sum[:], nil
}

func gcm() (cipher.AEAD, error) {
	masterKeyMu.Lock()
	if masterKey == nil {
		key, err := loadMasterKey()
		if err != nil {
			masterKeyMu.Unlock()
			return nil, err
		}
		masterKey = key
	}
	key := masterKey
	masterKeyMu.Unlock()

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext with AES-256-GCM under the master key.
// Output layout: [12-byte nonce][ciphertext][16-byte tag].
func Seal(plaintext []byte) ([]byte, error) {
	aead, err := gcm()
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open reverses Seal.
func Open(sealed []byte) ([]byte, error) {
	aead, err := gcm()
	if err != nil {
		return nil, err
	}

	n := aead.NonceSize()
	if len(sealed) < n {
		return nil, ErrUnsealFailed
	}
	plaintext, err := aead.Open(nil, sealed[:n], sealed[n:], nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsealFailed, err)
	}
	return plaintext, nil
}

// ResetMasterKeyForTesting drops the loaded key so the next Seal/Open
// re-reads configuration. Tests only.
func ResetMasterKeyForTesting() {
	masterKeyMu.Lock()
	defer masterKeyMu.Unlock()
	masterKey = nil
	masterKeyPath = ""
}
