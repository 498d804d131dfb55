package redflag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect_LengthBudget(t *testing.T) {
	det := New(CheckLength)
	ctx := Context{MaxTokens: 750}

	// 4000 characters is ~1000 estimated tokens, well over a 750 budget.
	long := strings.Repeat("word ", 800)
	require.Len(t, long, 4000)

	res := det.Detect(long, ctx)
	assert.True(t, res.ShouldFlag)
	require.Len(t, res.Reasons, 1)
	assert.Contains(t, res.Reasons[0], "exceeds budget")
	assert.Equal(t, SeverityModerate, res.Severity)
	assert.Equal(t, 1000, res.Details["estimated_tokens"])

	short := det.Detect("a concise answer", ctx)
	assert.False(t, short.ShouldFlag)
}

func TestDetect_LengthDisabledWithoutBudget(t *testing.T) {
	det := New(CheckLength)
	res := det.Detect(strings.Repeat("x", 100000), Context{})
	assert.False(t, res.ShouldFlag)
}

func TestDetect_FormatJSON(t *testing.T) {
	det := New(CheckFormat)

	tests := []struct {
		name string
		text string
		want ValueType
		flag bool
	}{
		{"valid array", `["a", "b"]`, TypeArray, false},
		{"object when array expected", `{"a": 1}`, TypeArray, true},
		{"valid object", `{"a": 1}`, TypeObject, false},
		{"array when object expected", `[1, 2]`, TypeObject, true},
		{"malformed json", `{"a": `, TypeAny, true},
		{"any type accepts scalar", `42`, TypeAny, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := det.Detect(tt.text, Context{ExpectedFormat: FormatJSON, ExpectedType: tt.want})
			assert.Equal(t, tt.flag, res.ShouldFlag)
			if tt.flag {
				assert.Equal(t, SeverityCritical, res.Severity)
			}
		})
	}
}

func TestDetect_ObjectiveListLayout(t *testing.T) {
	det := New(CheckFormat)
	ctx := Context{ExpectedFormat: FormatObjectiveList}

	valid := "Assess the viability of community solar programs\n" +
		"1. Map current adoption rates across regions\n" +
		"2. Identify regulatory barriers\n" +
		"3. Quantify household-level savings\n"
	assert.False(t, det.Detect(valid, ctx).ShouldFlag)

	tests := []struct {
		name string
		text string
	}{
		{"empty", "   \n  "},
		{"starts numbered", "1. No general objective here\n2. Second"},
		{"skips a number", "General statement\n1. First\n3. Third"},
		{"unnumbered specific", "General statement\n1. First\nnot numbered"},
		{"no specifics", "General statement only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := det.Detect(tt.text, ctx)
			assert.True(t, res.ShouldFlag)
			assert.Equal(t, SeverityCritical, res.Severity)
		})
	}
}

func TestParseObjectiveList_ExtractsEntries(t *testing.T) {
	list, violation := ParseObjectiveList("General: Understand reader trust\n1. Survey design literature\n2. Build a trust taxonomy")
	require.Empty(t, violation)
	assert.Equal(t, "Understand reader trust", list.General)
	assert.Equal(t, []string{"Survey design literature", "Build a trust taxonomy"}, list.Specific)
}

func TestDetect_DomainQualityMethodologyCreep(t *testing.T) {
	det := New(CheckDomainQuality)
	ctx := Context{TaskType: "objective"}

	res := det.Detect("To utilize regression analysis with n=500 and p<0.05", ctx)
	assert.True(t, res.ShouldFlag)
	assert.Equal(t, SeverityModerate, res.Severity)
	require.NotEmpty(t, res.Reasons)
	assert.Contains(t, res.Reasons[0], "methodology")

	clean := det.Detect("To characterize the adoption of solar energy in rural areas", ctx)
	assert.False(t, clean.ShouldFlag)
}

func TestDetect_DomainQualityHedging(t *testing.T) {
	det := New(CheckDomainQuality)

	res := det.Detect("This might possibly improve outcomes", Context{TaskType: "objective"})
	assert.True(t, res.ShouldFlag)
	require.NotEmpty(t, res.Reasons)
	assert.Contains(t, res.Reasons[0], "hedging")

	// A single qualifier is tolerable.
	one := det.Detect("This may improve outcomes", Context{TaskType: "objective"})
	assert.False(t, one.ShouldFlag)
}

func TestDetect_TogglesAreIndependent(t *testing.T) {
	// Only the length check is enabled: a format-violating response under
	// budget passes.
	det := New(CheckLength)
	res := det.Detect(`{"not": "an array"`, Context{
		ExpectedFormat: FormatJSON,
		ExpectedType:   TypeArray,
		MaxTokens:      750,
	})
	assert.False(t, res.ShouldFlag)
}

func TestDetect_SeverityIsMaxOfTriggered(t *testing.T) {
	det := New(CheckLength, CheckFormat)
	long := strings.Repeat("x", 4000) // over budget AND not valid JSON
	res := det.Detect(long, Context{
		ExpectedFormat: FormatJSON,
		ExpectedType:   TypeArray,
		MaxTokens:      100,
	})
	require.True(t, res.ShouldFlag)
	assert.Len(t, res.Reasons, 2)
	assert.Equal(t, SeverityCritical, res.Severity)
}

func TestDetect_EmptyTextUnderTextFormat(t *testing.T) {
	det := New(CheckFormat)
	res := det.Detect("   ", Context{ExpectedFormat: FormatText})
	assert.True(t, res.ShouldFlag)
	assert.Equal(t, SeverityCritical, res.Severity)
}

func TestSafeCheck_PanicDegradesToFlagged(t *testing.T) {
	// A check that cannot complete must fail safe: flagged, never clean.
	boom := func(string, Context) ([]string, Severity, map[string]any) {
		panic("boom")
	}
	reasons, sev, details := safeCheck(CheckFormat, boom, "anything", Context{})
	require.Len(t, reasons, 1)
	assert.Contains(t, reasons[0], "format check failed")
	assert.Equal(t, SeverityCritical, sev)
	assert.Contains(t, details, "format_error")
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "none", SeverityNone.String())
	assert.Equal(t, "minor", SeverityMinor.String())
	assert.Equal(t, "moderate", SeverityModerate.String())
	assert.Equal(t, "critical", SeverityCritical.String())
}
