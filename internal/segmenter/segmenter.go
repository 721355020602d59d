// Package segmenter turns raw transcript text into speaker-tagged segments
// and alternating question/response sequences. It is a pure function of the
// input text and the tag table.
package segmenter

import (
	"strings"

	"transcript-labeler-go/internal/types"
)

// matchTag returns the first rule whose prefix starts the token, or nil.
// First-match-in-order, not longest-prefix: when one configured literal is a
// prefix of another, the table's order decides the outcome.
func matchTag(token string, rules []types.TagRule) *types.TagRule {
	for i := range rules {
		if strings.HasPrefix(token, rules[i].Prefix) {
			return &rules[i]
		}
	}
	return nil
}

// Segment scans raw whitespace-delimited tokens and cuts a new segment at
// every token that begins with a configured speaker tag, stripping the tag
// literal. Text before the first tag becomes a single RoleUnknown segment; a
// transcript with no recognized tags yields exactly one such segment.
func Segment(raw string, rules []types.TagRule) []types.Segment {
	tokens := strings.Fields(raw)

	var segs []types.Segment
	role := types.RoleUnknown
	var buf strings.Builder

	flush := func() {
		text := strings.TrimSpace(buf.String())
		if text != "" {
			segs = append(segs, types.Segment{Role: role, Text: text})
		}
		buf.Reset()
	}

	for _, tok := range tokens {
		if rule := matchTag(tok, rules); rule != nil {
			flush()
			role = rule.Role
			tok = strings.TrimPrefix(tok, rule.Prefix)
			if tok == "" {
				continue
			}
		}
		if buf.Len() > 0 {
			buf.WriteByte(' ')
		}
		buf.WriteString(tok)
	}
	flush()
	return segs
}

// ExtractPairs partitions segments into the question and response sequences,
// preserving relative order within each. Untagged segments belong to neither
// list, so a tag-free transcript yields zero pairs rather than an error.
// startsWithRespondent is true iff the first segment is respondent speech.
func ExtractPairs(segs []types.Segment) (questions, responses []string, startsWithRespondent bool) {
	if len(segs) > 0 {
		startsWithRespondent = segs[0].Role == types.RoleRespondent
	}
	for _, s := range segs {
		switch s.Role {
		case types.RoleInterviewer:
			questions = append(questions, s.Text)
		case types.RoleRespondent:
			responses = append(responses, s.Text)
		}
	}
	return questions, responses, startsWithRespondent
}

// BuildPairs aligns the two sequences into indexed pairs. When the dialogue
// opens with the respondent, pair 1 has an empty question and carries the
// first respondent utterance; that layout is expected, not an error.
func BuildPairs(questions, responses []string, startsWithRespondent bool) []types.QRPair {
	var pairs []types.QRPair
	qi, ri := 0, 0
	if startsWithRespondent {
		first := ""
		if len(responses) > 0 {
			first = responses[0]
		}
		pairs = append(pairs, types.QRPair{Index: 1, Question: "", Response: first})
		ri = 1
	}
	for qi < len(questions) || ri < len(responses) {
		q, r := "", ""
		if qi < len(questions) {
			q = questions[qi]
		}
		if ri < len(responses) {
			r = responses[ri]
		}
		pairs = append(pairs, types.QRPair{Index: len(pairs) + 1, Question: q, Response: r})
		qi++
		ri++
	}
	return pairs
}
