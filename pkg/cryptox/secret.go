package cryptox

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// SecretKind separates the classes of secret we hash. The kind is mixed into
// the argon2 input, so a hash made for one kind never verifies a secret
// presented as another kind, even when the plaintexts are equal.
type SecretKind string

const (
	KindTeamPassphrase SecretKind = "team_passphrase"
	KindPIN            SecretKind = "pin"
	KindPassword       SecretKind = "password"
)

// Upper bounds for parameters read back out of a stored hash.
const (
	maxMemory     = 256 * 1024
	maxIterations = 16
	maxKeyLength  = 64
)

var (
	ErrSecretMismatch = errors.New("cryptox: secret does not match")
	ErrInvalidHash    = errors.New("cryptox: invalid hash format")
	ErrEmptyHash      = errors.New("cryptox: no hash to verify against")
	ErrUnknownKind    = errors.New("cryptox: unknown secret kind")
)

// Valid reports whether k is one of the known secret kinds.
func (k SecretKind) Valid() bool {
	switch k {
	case KindTeamPassphrase, KindPIN, KindPassword:
		return true
	}
	return false
}

// HashSecret generates a PHC-format Argon2id hash of secret for the given kind.
func HashSecret(kind SecretKind, secret string) (string, error) {
	if !kind.Valid() {
		return "", ErrUnknownKind
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", err
	}
	hash := argon2.IDKey(secretInput(kind, secret), salt, iterations, memory, parallelism, keyLength)

	return fmt.Sprintf(
		"$argon2id$v=19$m=%d,t=%d,p=%d$%s$%s",
		memory,
		iterations,
		parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

// VerifySecret compares secret against a hash produced by HashSecret for the
// same kind. It returns nil on a match, ErrSecretMismatch on a wrong secret,
// ErrEmptyHash when there is nothing to compare against, and ErrInvalidHash
// (wrapped) for anything it cannot parse.
func VerifySecret(kind SecretKind, secret, encodedHash string) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	if encodedHash == "" {
		return ErrEmptyHash
	}

	// ["", "argon2id", "v=19", "m=X,t=Y,p=Z", "salt", "hash"]
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 || parts[0] != "" {
		return fmt.Errorf("%w: expected 6 parts", ErrInvalidHash)
	}
	if parts[1] != "argon2id" {
		return fmt.Errorf("%w: not argon2id", ErrInvalidHash)
	}
	if parts[2] != "v=19" {
		return fmt.Errorf("%w: wrong version", ErrInvalidHash)
	}

	var mem, iters uint32
	var par uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &mem, &iters, &par); err != nil {
		return fmt.Errorf("%w: parameters: %v", ErrInvalidHash, err)
	}
	if mem == 0 || mem > maxMemory || iters == 0 || iters > maxIterations || par == 0 {
		return fmt.Errorf("%w: parameters out of range", ErrInvalidHash)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return fmt.Errorf("%w: salt", ErrInvalidHash)
	}
	expected, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(expected) == 0 || len(expected) > maxKeyLength {
		return fmt.Errorf("%w: hash", ErrInvalidHash)
	}

	computed := argon2.IDKey(
		secretInput(kind, secret),
		salt,
		iters,
		mem,
		par,
		uint32(len(expected)), // #nosec G115 - bounded by maxKeyLength
	)

	if subtle.ConstantTimeCompare(computed, expected) == 1 {
		return nil
	}
	return ErrSecretMismatch
}

func secretInput(kind SecretKind, secret string) []byte {
	return []byte(string(kind) + "\x00" + secret + GetPepper())
}
