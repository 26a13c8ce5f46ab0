// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	SchemeArgon2id     = "argon2id"
	SchemeBcrypt       = "bcrypt"
	SchemePBKDF2SHA256 = "pbkdf2_sha256"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltLength   = 16

	bcryptMaxInput = 72

	pbkdf2Rounds = 29000
	pbkdf2KeyLen = 32
)

var errHashFormat = errors.New("invalid hash format")

// PasswordHasher is the single active hashing strategy. Only the configured
// scheme is ever used to hash or verify.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encodedHash string) (bool, error)
	Scheme() string
}

func NewPasswordHasher(scheme string) (PasswordHasher, error) {
	switch scheme {
	case SchemeArgon2id, "":
		return argon2idHasher{}, nil
	case SchemeBcrypt:
		return bcryptHasher{cost: bcrypt.DefaultCost}, nil
	case SchemePBKDF2SHA256:
		return pbkdf2Hasher{rounds: pbkdf2Rounds}, nil
	default:
		return nil, fmt.Errorf("unsupported password scheme %q", scheme)
	}
}

// TimingSafeVerifier runs a full verification against a dummy hash when the
// account is unknown, so a missing user costs as much as a wrong password.
type TimingSafeVerifier struct {
	hasher    PasswordHasher
	dummyHash string
}

func NewTimingSafeVerifier(h PasswordHasher) (*TimingSafeVerifier, error) {
	dummy, err := h.Hash("dummy_password_for_timing_attack_prevention")
	if err != nil {
		return nil, fmt.Errorf("generate dummy hash: %w", err)
	}
	return &TimingSafeVerifier{hasher: h, dummyHash: dummy}, nil
}

func (v *TimingSafeVerifier) Verify(
	password string,
	encodedHash *string,
) (bool, error) {
	if encodedHash == nil || *encodedHash == "" {
		//nolint:errcheck // result discarded, only the cost matters
		_, _ = v.hasher.Verify(password, v.dummyHash)
		return false, nil
	}

	return v.hasher.Verify(password, *encodedHash)
}

type argon2idHasher struct{}

func (argon2idHasher) Scheme() string { return SchemeArgon2id }

func (argon2idHasher) Hash(password string) (string, error) {
	salt, err := randomBytes(saltLength)
	if err != nil {
		return "", err
	}

	hash := argon2.IDKey(
		[]byte(password),
		salt,
		argonTime,
		argonMemory,
		argonThreads,
		argonKeyLen,
	)

	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		argonMemory,
		argonTime,
		argonThreads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(hash),
	), nil
}

func (argon2idHasher) Verify(password, encodedHash string) (bool, error) {
	params, salt, hash, err := decodeArgonHash(encodedHash)
	if err != nil {
		return false, err
	}

	otherHash := argon2.IDKey(
		[]byte(password),
		salt,
		params.time,
		params.memory,
		params.threads,
		params.keyLen,
	)

	return subtle.ConstantTimeCompare(hash, otherHash) == 1, nil
}

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

func decodeArgonHash(encodedHash string) (*argonParams, []byte, []byte, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return nil, nil, nil, errHashFormat
	}

	if parts[1] != "argon2id" {
		return nil, nil, nil, fmt.Errorf("unsupported algorithm: %s", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid version: %w", err)
	}

	if version != argon2.Version {
		return nil, nil, nil, fmt.Errorf("incompatible version: %d", version)
	}

	params := &argonParams{}
	_, err := fmt.Sscanf(
		parts[3],
		"m=%d,t=%d,p=%d",
		&params.memory,
		&params.time,
		&params.threads,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid params: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode salt: %w", err)
	}

	hash, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return nil, nil, nil, fmt.Errorf("decode hash: %w", err)
	}

	//nolint:gosec // G115: hash length is always small (32 bytes for Argon2id)
	params.keyLen = uint32(len(hash))

	return params, salt, hash, nil
}

// bcryptHasher truncates input to 72 bytes, the most bcrypt will consume.
type bcryptHasher struct {
	cost int
}

func (bcryptHasher) Scheme() string { return SchemeBcrypt }

func (h bcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(truncate72(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hash), nil
}

func (bcryptHasher) Verify(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), truncate72(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
	return true, nil
}

func truncate72(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxInput {
		b = b[:bcryptMaxInput]
	}
	return b
}

// pbkdf2Hasher emits the passlib "$pbkdf2-sha256$rounds$salt$hash" format so
// hashes written by older deployments still verify.
type pbkdf2Hasher struct {
	rounds int
}

func (pbkdf2Hasher) Scheme() string { return SchemePBKDF2SHA256 }

func (h pbkdf2Hasher) Hash(password string) (string, error) {
	salt, err := randomBytes(saltLength)
	if err != nil {
		return "", err
	}

	key := pbkdf2.Key([]byte(password), salt, h.rounds, pbkdf2KeyLen, sha256.New)

	return fmt.Sprintf(
		"$pbkdf2-sha256$%d$%s$%s",
		h.rounds,
		abEncode(salt),
		abEncode(key),
	), nil
}

func (pbkdf2Hasher) Verify(password, encodedHash string) (bool, error) {
	parts := strings.Split(encodedHash, "$")
	if len(parts) != 5 || parts[1] != "pbkdf2-sha256" {
		return false, errHashFormat
	}

	rounds, err := strconv.Atoi(parts[2])
	if err != nil || rounds <= 0 {
		return false, fmt.Errorf("invalid rounds: %w", errHashFormat)
	}

	salt, err := abDecode(parts[3])
	if err != nil {
		return false, fmt.Errorf("decode salt: %w", err)
	}

	hash, err := abDecode(parts[4])
	if err != nil {
		return false, fmt.Errorf("decode hash: %w", err)
	}

	other := pbkdf2.Key([]byte(password), salt, rounds, len(hash), sha256.New)

	return subtle.ConstantTimeCompare(hash, other) == 1, nil
}

// passlib's adapted base64: '.' instead of '+', no padding.
func abEncode(b []byte) string {
	return strings.ReplaceAll(base64.RawStdEncoding.EncodeToString(b), "+", ".")
}

func abDecode(s string) ([]byte, error) {
	return base64.RawStdEncoding.DecodeString(strings.ReplaceAll(s, ".", "+"))
}

func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	return b, nil
}

// ConstantTimeEqual compares two secrets without leaking their common prefix
// length.
func ConstantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
