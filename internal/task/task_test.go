package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkstone-ai/quorum/internal/redflag"
	"github.com/inkstone-ai/quorum/internal/voting"
)

func TestKindValid(t *testing.T) {
	for _, k := range []Kind{KindObjective, KindCitation, KindRanking, KindStructured} {
		assert.True(t, k.Valid(), string(k))
	}
	assert.False(t, Kind("poetry").Valid())
	assert.False(t, Kind("").Valid())
}

func TestCodecFor(t *testing.T) {
	for _, k := range []Kind{KindObjective, KindCitation, KindRanking, KindStructured} {
		c, err := CodecFor(k)
		require.NoError(t, err, string(k))
		assert.NotNil(t, c)
	}
	_, err := CodecFor(Kind("poetry"))
	assert.Error(t, err)
}

func TestObjectiveCodec_RoundTrip(t *testing.T) {
	c := ObjectiveCodec{}

	prompt := c.Render(Request{Kind: KindObjective, Topic: "solar adoption", Count: 2})
	assert.Contains(t, prompt.User, "solar adoption")
	assert.Contains(t, prompt.User, "numbered 1 to 2")
	assert.NotEmpty(t, prompt.System)

	out := c.Parse("Understand solar adoption drivers\n1. Map regional uptake\n2. Identify cost barriers")
	require.True(t, out.OK)
	list, ok := out.Content.(redflag.ObjectiveList)
	require.True(t, ok)
	assert.Equal(t, "Understand solar adoption drivers", list.General)
	assert.Len(t, list.Specific, 2)

	bad := c.Parse("1. starts with a number")
	assert.False(t, bad.OK)
	assert.NotEmpty(t, bad.Reason)
}

func TestObjectiveCodec_KeyIgnoresSurfaceVariation(t *testing.T) {
	c := ObjectiveCodec{}
	a := c.Parse("Understand solar adoption\n1. Map regional uptake\n2. Identify cost barriers")
	b := c.Parse("UNDERSTAND   solar adoption.\n1. Map regional   uptake\n2. Identify cost barriers.")
	require.True(t, a.OK)
	require.True(t, b.OK)
	assert.Equal(t, a.Key, b.Key)

	other := c.Parse("Understand solar adoption\n1. Completely different item\n2. Identify cost barriers")
	require.True(t, other.OK)
	assert.NotEqual(t, a.Key, other.Key)
}

func TestRankedListCodec_OrderIsSignificant(t *testing.T) {
	c := RankedListCodec{Kind: KindRanking}

	a := c.Parse(`["x", "y", "z"]`)
	b := c.Parse(`["y", "x", "z"]`)
	require.True(t, a.OK)
	require.True(t, b.OK)
	assert.NotEqual(t, a.Key, b.Key)

	same := c.Parse(`["X ", "y", "z"]`)
	require.True(t, same.OK)
	assert.Equal(t, a.Key, same.Key)
}

func TestRankedListCodec_Parse(t *testing.T) {
	c := RankedListCodec{Kind: KindCitation}

	out := c.Parse(`["doi:10.1/a", "doi:10.1/b"]`)
	require.True(t, out.OK)
	assert.Equal(t, []string{"doi:10.1/a", "doi:10.1/b"}, out.Content)

	assert.False(t, c.Parse(`{"not": "an array"}`).OK)
	assert.False(t, c.Parse(`[]`).OK)
	assert.False(t, c.Parse(`[1, 2]`).OK)
}

func TestStructuredCodec_KeysByCanonicalJSON(t *testing.T) {
	c := StructuredCodec{}

	// Same value, different member order and spacing.
	a := c.Parse(`{"b": 2, "a": 1}`)
	b := c.Parse(`{ "a":1,"b":2 }`)
	require.True(t, a.OK)
	require.True(t, b.OK)
	assert.Equal(t, a.Key, b.Key)

	other := c.Parse(`{"a": 1, "b": 3}`)
	require.True(t, other.OK)
	assert.NotEqual(t, a.Key, other.Key)

	assert.False(t, c.Parse(`{"broken":`).OK)
}

func TestNormalizeText(t *testing.T) {
	assert.Equal(t, "hello world", NormalizeText("  Hello\tWORLD.  "))
	assert.Equal(t, "a b c", NormalizeText("a  b\n c!"))
	assert.Equal(t, "", NormalizeText("   "))
}

func TestKeyFrom_StableAndSeparated(t *testing.T) {
	assert.Equal(t, KeyFrom("a", "b"), KeyFrom("A", " b "))
	// Part boundaries matter: ["ab"] and ["a","b"] are different candidates.
	assert.NotEqual(t, KeyFrom("ab"), KeyFrom("a", "b"))
	assert.Len(t, KeyFrom("x"), 16)
}

func TestCanonicalizer_ReportsUnusableDraws(t *testing.T) {
	canon := Canonicalizer(RankedListCodec{Kind: KindRanking})

	key, content, ok := canon(voting.RawCandidate{Text: `["a", "b"]`})
	require.True(t, ok)
	assert.NotEmpty(t, key)
	assert.Equal(t, []string{"a", "b"}, content)

	_, _, ok = canon(voting.RawCandidate{Text: "not json"})
	assert.False(t, ok)
}
