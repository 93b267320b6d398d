package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsername(t *testing.T) {
	t.Parallel()

	ok := []string{"alice", "user_2", "a.b@c", "abc", strings.Repeat("x", 50)}
	bad := []string{"", "ab", "has space", "semi;colon", "<script>", strings.Repeat("x", 51)}

	for _, s := range ok {
		assert.NoError(t, Username(s), s)
	}
	for _, s := range bad {
		err := Username(s)
		require.Error(t, err, s)
		assert.ErrorIs(t, err, ErrValidation)

		var ve *ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "username", ve.Field)
	}
}

func TestEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Email("a@b.io"))
	assert.NoError(t, Email("first.last-1@mail.example.com"))

	for _, s := range []string{"", "a@b", "@b.io", "a b@c.io", "a@b.c", "a@b.toolongtld"} {
		assert.ErrorIs(t, Email(s), ErrValidation, s)
	}
}

func TestPhone(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"", "1234567890", "+11234567890", "+3801234567890"} {
		assert.NoError(t, Phone(s), s)
	}
	for _, s := range []string{"123", "12345678901", "+12345", "phone12345"} {
		assert.ErrorIs(t, Phone(s), ErrValidation, s)
	}
}

func TestPassword(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Password("x"))
	assert.NoError(t, Password(strings.Repeat("p", 72)))
	assert.ErrorIs(t, Password(""), ErrValidation)
	assert.ErrorIs(t, Password(strings.Repeat("p", 73)), ErrValidation)
}

func TestRequired(t *testing.T) {
	t.Parallel()

	assert.NoError(t, Required("name", "x"))
	err := Required("description", "  ")
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "description", ve.Field)
}

func TestParseID(t *testing.T) {
	t.Parallel()

	id, err := ParseID("42")
	require.NoError(t, err)
	assert.EqualValues(t, 42, id)

	for _, s := range []string{"", "0", "-1", "abc", "1.5"} {
		_, err := ParseID(s)
		assert.ErrorIs(t, err, ErrValidation, s)
	}
}

func TestSanitize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "scriptalert(1)script", Sanitize(`<script>alert(1)</script>`))
	assert.Equal(t, "tom", Sanitize("t'o\"m`&"))
	assert.Equal(t, "plain_name", Sanitize("plain_name"))
}
