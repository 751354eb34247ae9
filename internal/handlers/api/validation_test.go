package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, validateUsername("alice"))
	assert.NoError(t, validateUsername("alice_99"))
	assert.NoError(t, validateUsername("Bob2"))

	assert.Error(t, validateUsername(""))
	assert.Error(t, validateUsername("abc"), "too short")
	assert.Error(t, validateUsername("9lives"), "must start with a letter")
	assert.Error(t, validateUsername("_alice"), "must start with a letter")
	assert.Error(t, validateUsername("ali ce"), "no spaces")
	assert.Error(t, validateUsername("alice!"), "no punctuation")
	assert.Error(t, validateUsername("aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), "too long")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, validateEmail("alice@example.com"))
	assert.Error(t, validateEmail("not-an-email"))
	assert.Error(t, validateEmail(""))
}
