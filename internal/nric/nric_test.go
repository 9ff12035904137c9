package nric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid_KnownNumbers(t *testing.T) {
	valid := []string{
		"S1234567D",
		"T0000001E",
		"F2345678T",
		"s1234567d", // case insensitive
		" S1234567D ",
	}
	for _, id := range valid {
		assert.True(t, IsValid(id), "expected %q to be valid", id)
	}
}

func TestIsValid_Rejections(t *testing.T) {
	invalid := []string{
		"",
		"S1234567A",  // wrong checksum
		"T0000001B",  // wrong checksum for T series offset
		"A1234567D",  // unknown prefix
		"S123456D",   // too short
		"S12345678D", // too long
		"S12E4567D",  // non-digit
		"123456789",
	}
	for _, id := range invalid {
		assert.False(t, IsValid(id), "expected %q to be invalid", id)
	}
}

func TestGenerateRandom_ProducesValidNumbers(t *testing.T) {
	for i := 0; i < 100; i++ {
		id := GenerateRandom()
		assert.Len(t, id, 9)
		assert.True(t, IsValid(id), "generated %q should validate", id)
	}
}

func TestValidator_ImplementsPredicate(t *testing.T) {
	v := Validator{}
	assert.True(t, v.IsValid("S1234567D"))
	assert.False(t, v.IsValid("nope"))
}
