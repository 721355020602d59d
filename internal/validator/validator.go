// Package validator checks the labeled interview table against its
// structural invariants: strict Q/R alternation, taxonomy membership, Q/R
// label agreement per index, and embedded-header artifacts. Problems are
// counted and flagged, never fatal; a run always produces a complete report.
package validator

import (
	"strings"

	"transcript-labeler-go/internal/table"
	"transcript-labeler-go/internal/taxonomy"
)

// Error categories accumulated in the report.
const (
	CategoryAlternation  = "alternation"
	CategoryEmbedded     = "embedded"
	CategoryUnknownLabel = "unknown_label"
	CategoryQRMismatch   = "qr_mismatch"
)

// Flag points at one offending header cell. Record and Cell are positions in
// the document model; presentation (red fills) is layered on separately.
type Flag struct {
	Record   int
	Cell     int
	Category string
}

type position struct {
	cell  int
	label string
}

// Check scans every record's header cells left to right after the metadata
// prefix and returns the aggregate report plus per-cell flags. Cells that do
// not parse as Kind_Index_Label are ignored; the Unmatched sentinel is a
// taxonomy member and never flagged.
func Check(doc *table.Document) (*Report, []Flag) {
	counts := map[string]int{}
	totalHeaders := 0
	var flags []Flag

	for ri, rec := range doc.Records {
		prevKind := ""
		prevCell := -1
		qPos := map[int]position{}
		rPos := map[int]position{}

		for ci, c := range rec.Cells {
			if strings.TrimSpace(c.Header) == "" {
				continue
			}
			h, embedded, ok := table.ParseHeader(c.Header)
			if !ok {
				continue // not a Q/R header cell
			}
			totalHeaders++

			// Alternation: kinds should go Q,R,Q,R... Flag both ends of the
			// offending boundary, count the violation once.
			if prevKind == h.Kind {
				counts[CategoryAlternation]++
				flags = append(flags,
					Flag{Record: ri, Cell: prevCell, Category: CategoryAlternation},
					Flag{Record: ri, Cell: ci, Category: CategoryAlternation})
			}
			prevKind, prevCell = h.Kind, ci

			if embedded {
				counts[CategoryEmbedded]++
				flags = append(flags, Flag{Record: ri, Cell: ci, Category: CategoryEmbedded})
			}

			if !taxonomy.IsValid(h.Label) {
				counts[CategoryUnknownLabel]++
				flags = append(flags, Flag{Record: ri, Cell: ci, Category: CategoryUnknownLabel})
			}

			if h.Kind == "Q" {
				qPos[h.Index] = position{cell: ci, label: h.Label}
			} else {
				rPos[h.Index] = position{cell: ci, label: h.Label}
			}
		}

		// Q/R pair mismatch: for every index present on both sides, the
		// normalized labels must agree.
		for idx, q := range qPos {
			r, ok := rPos[idx]
			if !ok || q.label == r.label {
				continue
			}
			counts[CategoryQRMismatch]++
			flags = append(flags,
				Flag{Record: ri, Cell: q.cell, Category: CategoryQRMismatch},
				Flag{Record: ri, Cell: r.cell, Category: CategoryQRMismatch})
		}
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	return &Report{
		TotalHeaderCells: totalHeaders,
		ErrorCounts:      counts,
		TotalErrors:      total,
	}, flags
}

// Refs converts flags to workbook coordinates for marking.
func Refs(flags []Flag) []table.CellRef {
	refs := make([]table.CellRef, 0, len(flags))
	for _, fl := range flags {
		refs = append(refs, table.RefFor(fl.Record, fl.Cell))
	}
	return refs
}
