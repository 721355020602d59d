package table

import (
	"regexp"
	"strconv"
	"strings"
)

// headerRE matches the canonical header encoding Kind_Index_Label, e.g.
// "Q_12_Intro" or "R_7_Thanks", tolerating stray spaces around separators.
var headerRE = regexp.MustCompile(`^\s*([RQ])\s*_(\d+)\s*_(.+?)\s*$`)

// HeaderCell is the decoded form of one Kind_Index_Label cell.
type HeaderCell struct {
	Kind  string // "Q" or "R"
	Index int
	Label string
}

// ParseHeader decodes a header cell. embedded reports the jammed-header
// artifact: a tab co-occurring with another Q_/R_ fragment means two headers
// were merged into one cell, and only the text before the tab is parsed.
// ok is false for cells that are not header cells at all.
func ParseHeader(cell string) (h HeaderCell, embedded bool, ok bool) {
	text := strings.ReplaceAll(strings.TrimSpace(cell), " ", " ")

	if strings.Contains(text, "\t") && (strings.Contains(text, "Q_") || strings.Contains(text, "R_")) {
		embedded = true
		text = strings.TrimSpace(strings.SplitN(text, "\t", 2)[0])
	}

	m := headerRE.FindStringSubmatch(text)
	if m == nil {
		return HeaderCell{}, embedded, false
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil {
		return HeaderCell{}, embedded, false
	}
	// Normalize label whitespace and NBSPs to avoid false mismatches.
	label := strings.ReplaceAll(strings.TrimSpace(m[3]), " ", " ")
	return HeaderCell{Kind: m[1], Index: idx, Label: label}, embedded, true
}

// kindRE accepts headers with or without a label suffix: compiled raw files
// carry bare "Q_1" / "R_1" columns until the labeler rewrites them.
var kindRE = regexp.MustCompile(`^\s*([RQ])\s*_\s*(\d+)\s*(_.*)?$`)

// ParseKind reports just the Q/R kind of a header cell, tolerating unlabeled
// headers. The labeler walks columns with this; the validator uses the strict
// ParseHeader, since an unlabeled header in a labeled file is not a header
// cell at all.
func ParseKind(cell string) (kind string, ok bool) {
	text := strings.ReplaceAll(strings.TrimSpace(cell), " ", " ")
	if i := strings.IndexByte(text, '\t'); i >= 0 {
		text = strings.TrimSpace(text[:i])
	}
	m := kindRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FormatHeader renders the canonical encoding.
func FormatHeader(kind string, index int, label string) string {
	return kind + "_" + strconv.Itoa(index) + "_" + label
}
