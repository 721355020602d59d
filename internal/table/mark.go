package table

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// CellRef is a 1-based workbook coordinate.
type CellRef struct {
	Row int
	Col int
}

// RefFor maps a record's cell position to workbook coordinates: record ri
// occupies rows ri*2+1 (header) and ri*2+2 (content); cell ci sits after the
// three metadata columns.
func RefFor(recordIdx, cellIdx int) CellRef {
	return CellRef{Row: recordIdx*2 + 1, Col: cellIdx + 4}
}

// MarkCells copies the workbook at inputPath to outputPath with the given
// header cells filled red. Marking is presentation only: it never alters cell
// text, so a marked file revalidates to identical error counts.
func MarkCells(inputPath, outputPath string, refs []CellRef) error {
	f, err := excelize.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return fmt.Errorf("no sheets")
	}
	sheet := sheets[0]

	red, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"FFC7CE"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("new style: %w", err)
	}

	for _, ref := range refs {
		cell, err := excelize.CoordinatesToCellName(ref.Col, ref.Row)
		if err != nil {
			return fmt.Errorf("cell name %v: %w", ref, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, red); err != nil {
			return fmt.Errorf("style cell %s: %w", cell, err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("save file: %w", err)
	}
	return nil
}
