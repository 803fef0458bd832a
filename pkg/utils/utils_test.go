package utils_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hazemdiab/ebanking/pkg/utils"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	t.Parallel()
	hash, err := utils.HashPassword("Sup3rSecret!")
	require.NoError(t, err)
	assert.NotEqual(t, "Sup3rSecret!", hash)
	assert.True(t, utils.CheckPasswordHash("Sup3rSecret!", hash))
	assert.False(t, utils.CheckPasswordHash("other", hash))
}

func TestIsEmail(t *testing.T) {
	t.Parallel()
	assert.True(t, utils.IsEmail("jdoe@example.com"))
	assert.False(t, utils.IsEmail("not-an-email"))
	assert.False(t, utils.IsEmail(""))
}

func TestGenerateOTP(t *testing.T) {
	t.Parallel()
	code := utils.GenerateOTP(6)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', string(r))
	}
}

func TestGenerateCardNumber(t *testing.T) {
	t.Parallel()
	number := utils.GenerateCardNumber()
	assert.Len(t, number, 16)
	assert.True(t, strings.HasPrefix(number, "4"))
}

func TestGenerateCVV(t *testing.T) {
	t.Parallel()
	assert.Len(t, utils.GenerateCVV(), 3)
}

func TestGenerateReferenceIsUnique(t *testing.T) {
	t.Parallel()
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		ref := utils.GenerateReference()
		assert.True(t, strings.HasPrefix(ref, "TXN-"))
		assert.False(t, seen[ref], ref)
		seen[ref] = true
	}
}
