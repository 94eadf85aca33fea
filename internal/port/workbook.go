package port

// CellStyle selects one of the reusable workbook styles.
type CellStyle int

const (
	StyleHeader CellStyle = iota // bold 18pt, section and column headers
	StyleNormal                  // plain 12pt
	StyleLink                    // 12pt, hyperlink cells
)

// Workbook is the spreadsheet assembler contract. The export service owns
// the row/column layout; implementations own only the binary encoding.
type Workbook interface {
	// AddSheet creates a worksheet with the given (already validated) name.
	AddSheet(name string) (Sheet, error)

	// Bytes serializes the workbook to its binary form.
	Bytes() ([]byte, error)
}

// Sheet writes cells of one worksheet. Rows and columns are 1-based.
type Sheet interface {
	// WriteCell writes a styled text cell.
	WriteCell(row, col int, value string, style CellStyle) error

	// WriteMergedCell writes value into a cell merged across colSpan columns.
	WriteMergedCell(row, col, colSpan int, value string, style CellStyle) error

	// WriteLink writes a hyperlink cell. display defaults to the URL when
	// empty; tooltip is optional.
	WriteLink(row, col int, url, display, tooltip string) error

	// WriteMergedLink writes a hyperlink cell merged across colSpan columns.
	WriteMergedLink(row, col, colSpan int, url, display, tooltip string) error
}
