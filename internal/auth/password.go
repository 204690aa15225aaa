package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultArgonMemory is the argon2id memory cost in KiB.
	DefaultArgonMemory uint32 = 19 * 1024
	// DefaultArgonTime is the argon2id iteration count.
	DefaultArgonTime uint32 = 2
	// DefaultArgonThreads is the argon2id parallelism.
	DefaultArgonThreads uint8 = 1

	saltLength = 16
	keyLength  = 32

	// Upper bounds accepted when decoding a stored hash. Anything larger is
	// treated as corrupt rather than run.
	maxArgonMemory  uint32 = 1 << 20
	maxArgonTime    uint32 = 16
	maxArgonThreads uint8  = 16
)

// PasswordHasher hashes passwords with argon2id and encodes them in PHC string
// format, so the salt and cost parameters travel with the hash.
type PasswordHasher struct {
	Memory  uint32
	Time    uint32
	Threads uint8
}

// NewPasswordHasher returns a hasher with the default cost parameters.
func NewPasswordHasher() *PasswordHasher {
	return &PasswordHasher{
		Memory:  DefaultArgonMemory,
		Time:    DefaultArgonTime,
		Threads: DefaultArgonThreads,
	}
}

// Hash derives an argon2id key from password with a fresh random salt.
func (h *PasswordHasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	key := argon2.IDKey([]byte(password), salt, h.Time, h.Memory, h.Threads, keyLength)

	return fmt.Sprintf("$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version, h.Memory, h.Time, h.Threads,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether password matches encoded. Malformed hashes never
// match. bcrypt hashes are accepted for rows created before argon2id.
func (h *PasswordHasher) Verify(password, encoded string) bool {
	if strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	p, salt, key, ok := decodeArgon2id(encoded)
	if !ok {
		return false
	}
	derived := argon2.IDKey([]byte(password), salt, p.Time, p.Memory, p.Threads, uint32(len(key)))
	return subtle.ConstantTimeCompare(derived, key) == 1
}

func decodeArgon2id(encoded string) (params PasswordHasher, salt, key []byte, ok bool) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" || parts[1] != "argon2id" {
		return params, nil, nil, false
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return params, nil, nil, false
	}

	var threads uint32
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.Memory, &params.Time, &threads); err != nil {
		return params, nil, nil, false
	}
	if params.Memory == 0 || params.Memory > maxArgonMemory ||
		params.Time == 0 || params.Time > maxArgonTime ||
		threads == 0 || threads > uint32(maxArgonThreads) {
		return params, nil, nil, false
	}
	params.Threads = uint8(threads)

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil || len(salt) == 0 {
		return params, nil, nil, false
	}
	key, err = base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil || len(key) == 0 {
		return params, nil, nil, false
	}
	return params, salt, key, true
}
