// Package merger flattens a labeled interview table into one row per
// interview: metadata columns followed by one column per taxonomy code in
// canonical order, with every response filed under its label.
package merger

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"transcript-labeler-go/internal/table"
	"transcript-labeler-go/internal/taxonomy"
)

// Responses merge on the R header's label, ignoring the pair index:
// R_72_Intro and R_3_Intro land in the same column.
var responseHeaderRE = regexp.MustCompile(`R_\d+_(.+)`)

// Merge groups each record's responses by label. Multiple responses under
// one label join as "- " bullets, one per line.
func Merge(doc *table.Document) []map[string]string {
	var out []map[string]string
	for _, rec := range doc.Records {
		grouped := map[string][]string{}
		for _, c := range rec.Cells {
			if strings.TrimSpace(c.Value) == "" {
				continue
			}
			m := responseHeaderRE.FindStringSubmatch(c.Header)
			if m == nil {
				continue
			}
			label := m[1]
			grouped[label] = append(grouped[label], strings.TrimSpace(c.Value))
		}

		row := map[string]string{
			table.MetaFields[0]: rec.Name,
			table.MetaFields[1]: rec.Date,
			table.MetaFields[2]: rec.Location,
		}
		for label, vals := range grouped {
			row[label] = "\n- " + strings.Join(vals, "\n- ")
		}
		out = append(out, row)
	}
	return out
}

// dateLayouts are tried in order when coercing the Date column so merged
// cells can carry a real date and the "d mmm" display format.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006", "2 Jan 2006", "Jan 2, 2006", "2006"}

// Write renders the merged rows with metadata first and label columns in
// canonical taxonomy order. Date cells that parse get the "d mmm" number
// format; unparseable dates are kept verbatim.
func Write(rows []map[string]string, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	columns := append([]string{table.MetaFields[0], table.MetaFields[1], table.MetaFields[2]}, taxonomy.Codes...)

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr("d mmm")})
	if err != nil {
		return fmt.Errorf("new style: %w", err)
	}

	for ri, row := range rows {
		excelRow := ri + 2
		vals := make([]interface{}, len(columns))
		for ci, col := range columns {
			vals[ci] = row[col]
		}
		if d, ok := parseDate(row[table.MetaFields[1]]); ok {
			vals[1] = d
		}
		if err := setRow(f, sheet, excelRow, vals); err != nil {
			return err
		}
		if _, ok := vals[1].(time.Time); ok {
			cell, _ := excelize.CoordinatesToCellName(2, excelRow)
			if err := f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

func setRow(f *excelize.File, sheet string, row int, vals []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func ptr(s string) *string { return &s }
