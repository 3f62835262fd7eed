package weaver

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/otherview/key-weaver/interfaces"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeCommitments_Format(t *testing.T) {
	commitments := []interfaces.Commitment{
		{Provider: "google", CommitmentHex: strings.Repeat("aa", 32)},
		{Provider: "github", CommitmentHex: strings.Repeat("bb", 32)},
	}

	canonical := CanonicalizeCommitments(commitments)
	expected := "github:" + strings.Repeat("bb", 32) + "|google:" + strings.Repeat("aa", 32)
	assert.Equal(t, expected, canonical, "Records sorted by provider, joined by | with : inside")
}

func TestCanonicalizeCommitments_OrderIndependent(t *testing.T) {
	commitments := []interfaces.Commitment{
		{Provider: "google", CommitmentHex: strings.Repeat("aa", 32)},
		{Provider: "github", CommitmentHex: strings.Repeat("bb", 32)},
		{Provider: "passkey", CommitmentHex: strings.Repeat("cc", 32)},
		{Provider: "github", CommitmentHex: strings.Repeat("dd", 32)},
	}

	canonical := CanonicalizeCommitments(commitments)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]interfaces.Commitment, len(commitments))
		copy(shuffled, commitments)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		assert.Equal(t, canonical, CanonicalizeCommitments(shuffled),
			"Every permutation must canonicalize identically")
	}
}

func TestCanonicalizeCommitments_ProviderNormalization(t *testing.T) {
	a := CanonicalizeCommitments([]interfaces.Commitment{
		{Provider: "Google", CommitmentHex: strings.ToUpper(strings.Repeat("aa", 32))},
	})
	b := CanonicalizeCommitments([]interfaces.Commitment{
		{Provider: " google ", CommitmentHex: strings.Repeat("aa", 32)},
	})
	assert.Equal(t, a, b)
}

func TestCanonicalizeCommitments_SameProviderTiebreak(t *testing.T) {
	low := interfaces.Commitment{Provider: "github", CommitmentHex: strings.Repeat("11", 32)}
	high := interfaces.Commitment{Provider: "github", CommitmentHex: strings.Repeat("22", 32)}

	forward := CanonicalizeCommitments([]interfaces.Commitment{low, high})
	backward := CanonicalizeCommitments([]interfaces.Commitment{high, low})
	assert.Equal(t, forward, backward)
	assert.True(t, strings.Index(forward, "11") < strings.Index(forward, "22"),
		"Commitment hex is the tiebreak within a provider")
}

func TestCanonicalizeCommitments_DistinctSetsDiffer(t *testing.T) {
	a := CanonicalizeCommitments([]interfaces.Commitment{
		{Provider: "google", CommitmentHex: strings.Repeat("aa", 32)},
	})
	b := CanonicalizeCommitments([]interfaces.Commitment{
		{Provider: "google", CommitmentHex: strings.Repeat("ab", 32)},
	})
	assert.NotEqual(t, a, b)

	empty := CanonicalizeCommitments(nil)
	assert.Equal(t, "", empty)
}

func TestCanonicalizeCommitments_DoesNotMutateInput(t *testing.T) {
	commitments := []interfaces.Commitment{
		{Provider: "ZZZ", CommitmentHex: strings.Repeat("ff", 32)},
		{Provider: "aaa", CommitmentHex: strings.Repeat("00", 32)},
	}

	CanonicalizeCommitments(commitments)
	assert.Equal(t, "ZZZ", commitments[0].Provider, "Input slice must be left untouched")
}
