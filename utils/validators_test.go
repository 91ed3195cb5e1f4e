package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("driver@example.com"))
	assert.True(t, IsValidEmail("a.b+c@sub.example.io"))
	assert.False(t, IsValidEmail("not-an-email"))
	assert.False(t, IsValidEmail("missing@tld"))
}

func TestIsValidPassword(t *testing.T) {
	assert.True(t, IsValidPassword("Secret1!"))
	assert.True(t, IsValidPassword("abcDEF123"))
	assert.False(t, IsValidPassword("short"))
	assert.False(t, IsValidPassword("alllowercase"))
}

func TestIsValidPostContent(t *testing.T) {
	assert.True(t, IsValidPostContent("hello"))
	assert.False(t, IsValidPostContent(""))
	assert.False(t, IsValidPostContent("   "))
	assert.False(t, IsValidPostContent(strings.Repeat("x", MaxPostContentLength+1)))
}

func TestIsValidSector(t *testing.T) {
	assert.True(t, IsValidSector("drivers"))
	assert.True(t, IsValidSector("night-shift_2"))
	assert.False(t, IsValidSector(""))
	assert.False(t, IsValidSector("Drivers"))
	assert.False(t, IsValidSector("has space"))
}
