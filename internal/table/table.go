// Package table reads and writes the two-row-per-record interview workbook:
// a header row (metadata field names then Q_i_Label / R_i_Label columns) over
// a content row (metadata values then the paired question/response text).
// Each block is modeled as one Record of ordered (header, value) cells, so
// the two rows can never drift out of positional alignment.
package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// MetaFields are the three reserved leading columns of every record.
var MetaFields = [3]string{"Corporator Name", "Date", "Location"}

// Cell is one aligned (header, value) column pair beyond the metadata prefix.
type Cell struct {
	Header string
	Value  string
}

// Record is one interview: metadata plus its ordered Q/R columns.
type Record struct {
	Name     string
	Date     string
	Location string
	Cells    []Cell
}

// Document is a whole workbook of records in file order.
type Document struct {
	Records []Record
}

// Read loads a workbook's first sheet into records, pairing rows (1,2),
// (3,4), … A trailing unpaired row is dropped, matching the source layout
// where every record owns exactly two rows.
func Read(path string) (*Document, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	doc := &Document{}
	for i := 0; i+1 < len(rows); i += 2 {
		headers, values := rows[i], rows[i+1]
		rec := Record{
			Name:     cellAt(values, 0),
			Date:     cellAt(values, 1),
			Location: cellAt(values, 2),
		}
		width := len(headers)
		if len(values) > width {
			width = len(values)
		}
		for c := 3; c < width; c++ {
			rec.Cells = append(rec.Cells, Cell{Header: cellAt(headers, c), Value: cellAt(values, c)})
		}
		doc.Records = append(doc.Records, rec)
	}
	return doc, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

// Write renders the document back to a workbook. Metadata field names appear
// only on the first record's header row; later blocks leave them blank to
// avoid repetition. Empty metadata value cells are gray-filled for manual
// review.
func Write(doc *Document, path string) error {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	gray, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("new style: %w", err)
	}

	for ri, rec := range doc.Records {
		headerRow := ri*2 + 1
		valueRow := headerRow + 1

		headers := make([]interface{}, 0, 3+len(rec.Cells))
		values := make([]interface{}, 0, 3+len(rec.Cells))
		if ri == 0 {
			headers = append(headers, MetaFields[0], MetaFields[1], MetaFields[2])
		} else {
			headers = append(headers, "", "", "")
		}
		values = append(values, rec.Name, rec.Date, rec.Location)
		for _, c := range rec.Cells {
			headers = append(headers, c.Header)
			values = append(values, c.Value)
		}

		if err := setRow(f, sheet, headerRow, headers); err != nil {
			return err
		}
		if err := setRow(f, sheet, valueRow, values); err != nil {
			return err
		}

		for col, meta := range []string{rec.Name, rec.Date, rec.Location} {
			if meta != "" {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, valueRow)
			if err := f.SetCellStyle(sheet, cell, cell, gray); err != nil {
				return fmt.Errorf("style cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, vals []interface{}) error {
	cell, _ := excelize.CoordinatesToCellName(1, row)
	if err := f.SetSheetRow(sheet, cell, &vals); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}
