package types

// Role identifies which side of the interview a segment belongs to.
type Role string

const (
	RoleInterviewer Role = "interviewer"
	RoleRespondent  Role = "respondent"
	// RoleUnknown marks text that precedes the first recognized speaker tag.
	RoleUnknown Role = "unknown"
)

// Segment is a contiguous span of transcript text attributed to one speaker.
type Segment struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// QRPair is one question/response pair. Index is a dense 1..K renumbering in
// source column order, independent of any numbering in the original document.
type QRPair struct {
	Index    int    `json:"index"`
	Question string `json:"question"`
	Response string `json:"response"`
	Label    string `json:"label,omitempty"`
}

// TagRule maps a literal speaker-tag prefix to a role. Matching is
// first-match-in-order over the rule table, not longest-prefix: when one
// literal is a prefix of another, table order decides.
type TagRule struct {
	Role   Role   `yaml:"role"`
	Prefix string `yaml:"prefix"`
}
