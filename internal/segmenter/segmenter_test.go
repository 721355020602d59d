package segmenter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"transcript-labeler-go/internal/config"
	"transcript-labeler-go/internal/types"
)

func TestSegment_SplitsOnSpeakerTags(t *testing.T) {
	raw := "I: What is your name? R: My name is John. I: Thank you."
	segs := Segment(raw, config.DefaultTags)

	require.Len(t, segs, 3)
	assert.Equal(t, types.Segment{Role: types.RoleInterviewer, Text: "What is your name?"}, segs[0])
	assert.Equal(t, types.Segment{Role: types.RoleRespondent, Text: "My name is John."}, segs[1])
	assert.Equal(t, types.Segment{Role: types.RoleInterviewer, Text: "Thank you."}, segs[2])
}

func TestSegment_StripsTagFromAttachedToken(t *testing.T) {
	segs := Segment("I:Hello R:World", config.DefaultTags)

	require.Len(t, segs, 2)
	assert.Equal(t, "Hello", segs[0].Text)
	assert.Equal(t, "World", segs[1].Text)
}

func TestSegment_NoTagsYieldsSingleUntaggedSegment(t *testing.T) {
	segs := Segment("just some narration without any speakers", config.DefaultTags)

	require.Len(t, segs, 1)
	assert.Equal(t, types.RoleUnknown, segs[0].Role)

	q, r, starts := ExtractPairs(segs)
	assert.Empty(t, q)
	assert.Empty(t, r)
	assert.False(t, starts)
}

func TestSegment_LeadingTextBeforeFirstTag(t *testing.T) {
	segs := Segment("Recorded in Lucknow. I: Shall we begin? R: Yes.", config.DefaultTags)

	require.Len(t, segs, 3)
	assert.Equal(t, types.RoleUnknown, segs[0].Role)
	assert.Equal(t, "Recorded in Lucknow.", segs[0].Text)
}

func TestSegment_FirstMatchInOrderWins(t *testing.T) {
	// "[Interviewer]:" precedes "[Interviewer]" in the table, so the longer
	// literal is stripped only because of its position, not a longest-prefix
	// rule.
	rules := []types.TagRule{
		{Role: types.RoleInterviewer, Prefix: "[Interviewer]:"},
		{Role: types.RoleInterviewer, Prefix: "[Interviewer]"},
		{Role: types.RoleRespondent, Prefix: "R:"},
	}
	segs := Segment("[Interviewer]:First R:Reply", rules)
	require.Len(t, segs, 2)
	assert.Equal(t, "First", segs[0].Text)

	// Reversed order: the shorter literal matches first and leaves the colon
	// behind. Documented first-match-wins behavior, preserved as is.
	reversed := []types.TagRule{
		{Role: types.RoleInterviewer, Prefix: "[Interviewer]"},
		{Role: types.RoleInterviewer, Prefix: "[Interviewer]:"},
		{Role: types.RoleRespondent, Prefix: "R:"},
	}
	segs = Segment("[Interviewer]:First R:Reply", reversed)
	require.Len(t, segs, 2)
	assert.Equal(t, ":First", segs[0].Text)
}

func TestExtractPairs_StartsWithRespondent(t *testing.T) {
	segs := Segment("R: Hello I: What is your name? R: John", config.DefaultTags)

	q, r, starts := ExtractPairs(segs)
	assert.True(t, starts)
	assert.Equal(t, []string{"What is your name?"}, q)
	assert.Equal(t, []string{"Hello", "John"}, r)

	pairs := BuildPairs(q, r, starts)
	require.Len(t, pairs, 2)
	assert.Equal(t, types.QRPair{Index: 1, Question: "", Response: "Hello"}, pairs[0])
	assert.Equal(t, types.QRPair{Index: 2, Question: "What is your name?", Response: "John"}, pairs[1])
}

func TestBuildPairs_UnevenSequences(t *testing.T) {
	pairs := BuildPairs([]string{"q1", "q2", "q3"}, []string{"r1"}, false)

	require.Len(t, pairs, 3)
	assert.Equal(t, types.QRPair{Index: 1, Question: "q1", Response: "r1"}, pairs[0])
	assert.Equal(t, types.QRPair{Index: 2, Question: "q2", Response: ""}, pairs[1])
	assert.Equal(t, types.QRPair{Index: 3, Question: "q3", Response: ""}, pairs[2])
}

func TestBuildPairs_Empty(t *testing.T) {
	assert.Empty(t, BuildPairs(nil, nil, false))
}
