package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	assert.Equal(t, []string{"read:privileged", "write"}, DedupeAndTrim([]string{" read:privileged ", "write", "read:privileged", "", "  "}))
	assert.Nil(t, DedupeAndTrim(nil))
	assert.Empty(t, DedupeAndTrim([]string{" ", ""}))
}

func TestDedupeAndTrimLower(t *testing.T) {
	in := []string{"6F1C9A52-0C1B-4C55-9F0E-9B7E3F1A2B3C", "6f1c9a52-0c1b-4c55-9f0e-9b7e3f1a2b3c ", "abc"}
	assert.Equal(t, []string{"6f1c9a52-0c1b-4c55-9f0e-9b7e3f1a2b3c", "abc"}, DedupeAndTrimLower(in))
}

func TestSplitFields(t *testing.T) {
	assert.Equal(t, []string{"read:privileged", "write:aircraft"}, SplitFields("read:privileged  write:aircraft read:privileged"))
	assert.Empty(t, SplitFields("   "))
}
