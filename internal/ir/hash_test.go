package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFingerprintKnownVector(t *testing.T) {
	// Plain sha256 hex, no prefix.
	assert.Equal(t,
		"185f8db32271fe25f561a6fc938b2e264306ec304eda518007d1764826381969",
		Fingerprint("Hello"))
}

func TestFingerprintEmpty(t *testing.T) {
	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		Fingerprint(""))
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("scene: a quiet morning")
	b := Fingerprint("scene: a quiet morning")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestFingerprintNormalizesUnicode(t *testing.T) {
	// Same text, composed vs decomposed accents. Both must hash to the
	// NFC form's digest.
	composed := "café"
	decomposed := "café"
	assert.Equal(t, Fingerprint(composed), Fingerprint(decomposed))
	assert.Equal(t,
		"850f7dc43910ff890f8879c0ed26fe697c93a067ad93a7d50f466a7028a9bf4e",
		Fingerprint(composed))
}

func TestFingerprintDistinguishesContent(t *testing.T) {
	assert.NotEqual(t, Fingerprint("Hello"), Fingerprint("hello"))
}
