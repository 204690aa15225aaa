package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fastHasher keeps the suite quick while exercising the same code paths.
func fastHasher() *PasswordHasher {
	return &PasswordHasher{Memory: 1024, Time: 1, Threads: 1}
}

func TestPasswordHasher_RoundTrip(t *testing.T) {
	h := fastHasher()
	for _, pw := range []string{"password123", "", "ünïcødé-π", strings.Repeat("x", 200)} {
		encoded, err := h.Hash(pw)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"))
		assert.True(t, h.Verify(pw, encoded), "password %q", pw)
	}
}

func TestPasswordHasher_WrongPasswordRejected(t *testing.T) {
	h := fastHasher()
	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.False(t, h.Verify("correct horsE", encoded))
	assert.False(t, h.Verify("", encoded))
}

func TestPasswordHasher_SaltIsRandom(t *testing.T) {
	h := fastHasher()
	a, err := h.Hash("same-password")
	require.NoError(t, err)
	b, err := h.Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same-password", a))
	assert.True(t, h.Verify("same-password", b))
}

func TestPasswordHasher_ParamsTravelWithHash(t *testing.T) {
	encoded, err := fastHasher().Hash("pw-12345678")
	require.NoError(t, err)

	// A hasher configured differently still verifies using the encoded params.
	assert.True(t, NewPasswordHasher().Verify("pw-12345678", encoded))
}

func TestPasswordHasher_MalformedHashesFailClosed(t *testing.T) {
	h := fastHasher()
	valid, err := h.Hash("pw")
	require.NoError(t, err)
	parts := strings.Split(valid, "$")

	cases := map[string]string{
		"empty":            "",
		"plain text":       "pw",
		"wrong algorithm":  strings.Replace(valid, "argon2id", "argon2i", 1),
		"wrong version":    strings.Replace(valid, "v=19", "v=16", 1),
		"missing segment":  strings.Join(parts[:5], "$"),
		"bad params":       strings.Replace(valid, "m=1024,t=1,p=1", "m=x,t=1,p=1", 1),
		"zero time":        strings.Replace(valid, "t=1", "t=0", 1),
		"huge memory":      strings.Replace(valid, "m=1024", "m=99999999", 1),
		"bad salt base64":  strings.Join([]string{"", parts[1], parts[2], parts[3], "!!!", parts[5]}, "$"),
		"bad key base64":   strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4], "%%%"}, "$"),
		"empty key":        strings.Join([]string{"", parts[1], parts[2], parts[3], parts[4], ""}, "$"),
		"truncated bcrypt": "$2a$10$abc",
	}
	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.False(t, h.Verify("pw", encoded))
			})
		})
	}
}

func TestPasswordHasher_VerifiesLegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("legacy-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	h := fastHasher()
	assert.True(t, h.Verify("legacy-pass", string(legacy)))
	assert.False(t, h.Verify("other-pass", string(legacy)))
}
