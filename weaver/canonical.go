package weaver

import (
	"sort"
	"strings"

	"github.com/otherview/key-weaver/interfaces"
)

// recordSeparator joins canonical-form records. It cannot appear inside a
// normalized provider tag used with this scheme or inside hex, so records
// never collide across boundaries.
const recordSeparator = "|"

// providerHexSeparator joins a provider tag and its commitment hex within a
// single canonical record.
const providerHexSeparator = ":"

// CanonicalizeCommitments serializes a commitment set into its canonical
// form: provider tags lowercased and trimmed, entries sorted by
// (provider, commitmentHex), rendered as "provider:hex" records joined by
// "|". The function is pure; the input slice is left untouched. Any
// permutation of an equal multiset canonicalizes to the identical string.
func CanonicalizeCommitments(commitments []interfaces.Commitment) string {
	normalized := make([]interfaces.Commitment, len(commitments))
	for i, c := range commitments {
		normalized[i] = interfaces.Commitment{
			Provider:      NormalizeProvider(c.Provider),
			CommitmentHex: strings.ToLower(c.CommitmentHex),
		}
	}

	sort.Slice(normalized, func(i, j int) bool {
		if normalized[i].Provider != normalized[j].Provider {
			return normalized[i].Provider < normalized[j].Provider
		}
		return normalized[i].CommitmentHex < normalized[j].CommitmentHex
	})

	records := make([]string, len(normalized))
	for i, c := range normalized {
		records[i] = c.Provider + providerHexSeparator + c.CommitmentHex
	}

	return strings.Join(records, recordSeparator)
}
