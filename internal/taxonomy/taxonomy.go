// Package taxonomy holds the canonical label set for interview Q/R pairs.
// The set is closed: no code may be invented at runtime.
package taxonomy

import "strings"

// Unmatched is the sentinel returned when a question cannot be labeled. It is
// a full member of the taxonomy, not an error value.
const Unmatched = "Unmatched"

// Codes lists every canonical label in its fixed order. The order matters for
// the merged export, which lays columns out in this sequence.
var Codes = []string{
	"Intro",
	"Current_Status",
	"Wife_Or_You",
	"End_Year",
	"Daily_Tasks",
	"Ward_Languages",
	"Mother_Tongue",
	"Other_Lang_Spoken",
	"Other_Lang_Understood",
	"Hindi_Dialects",
	"Hindi_Dialect_Differences",
	"Correct_Hindi",
	"Dialect_Job_Impact",
	"Dialect_Constituents_1on1_Impact",
	"Dialect_Constituents_Groups_Impact",
	"Dialect_Corp_Impact",
	"Dialect_Leaders_Impact",
	"Dialect_Choice_Example",
	"Dialect_Choice_Grievance",
	"Dialect_Choice_Campaigning",
	"Dialect_Choice_Meetings",
	"Dialect_Choice_Bureaucrats",
	"Dialect_Choice_Other",
	"Dialect_Choice_Multiple",
	Unmatched,
	"Thanks",
}

var set = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Codes))
	for _, c := range Codes {
		m[c] = struct{}{}
	}
	return m
}()

// IsValid reports whether code is a taxonomy member (case-sensitive).
func IsValid(code string) bool {
	_, ok := set[code]
	return ok
}

// PromptEnum renders the allowed codes as a bulleted list for the oracle
// prompt.
func PromptEnum() string {
	var b strings.Builder
	for i, c := range Codes {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(c)
	}
	return b.String()
}
