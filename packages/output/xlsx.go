package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/abdul-hamid-achik/reqsuite/packages/core/runner"
)

const (
	sheetNameFormat   = "Run %d"
	defaultColWidth   = 14
	wideColWidth      = 48
	patternType       = "pattern"
	patternSolid      = 1
	failedBgColor     = "FF5900"
	slowBgColor       = "FFEB9C"
	skippedBgColor    = "D9D9D9"
	headerBgColor     = "BDD7EE"
	slowCaseThreshold = 1 * time.Second
)

var xlsxHeaders = []string{
	"#", "Case", "Method", "URL", "Status", "Result",
	"Kind", "Detail", "Duration (ms)", "Tags",
}

// XLSXFormatter writes reports as an Excel workbook. Each report becomes
// a sheet; slow passing cases are highlighted.
type XLSXFormatter struct {
	writer  io.Writer
	reports []*runner.Report
	slow    time.Duration
}

type XLSXOption func(*XLSXFormatter)

func NewXLSXFormatter(opts ...XLSXOption) *XLSXFormatter {
	f := &XLSXFormatter{
		writer: os.Stdout,
		slow:   slowCaseThreshold,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func XLSXWithWriter(w io.Writer) XLSXOption {
	return func(f *XLSXFormatter) {
		f.writer = w
	}
}

// XLSXWithSlowThreshold sets the duration above which a passing case is
// highlighted.
func XLSXWithSlowThreshold(d time.Duration) XLSXOption {
	return func(f *XLSXFormatter) {
		f.slow = d
	}
}

func (f *XLSXFormatter) FormatResult(report *runner.Report) {
	f.reports = append(f.reports, report)
}

func (f *XLSXFormatter) FormatError(err error) {
	// Errors are included in individual rows
}

func (f *XLSXFormatter) FormatHeader(version string) {
	// No header needed for a workbook
}

// Flush builds the workbook and writes it.
func (f *XLSXFormatter) Flush(totalDuration time.Duration) error {
	book := excelize.NewFile()
	defer book.Close()

	styles, err := newXLSXStyles(book)
	if err != nil {
		return err
	}

	for i, report := range f.reports {
		sheet := fmt.Sprintf(sheetNameFormat, i+1)
		if i == 0 {
			if err := book.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("naming sheet: %w", err)
			}
		} else if _, err := book.NewSheet(sheet); err != nil {
			return fmt.Errorf("creating sheet: %w", err)
		}

		if err := f.writeSheet(book, sheet, report, styles); err != nil {
			return err
		}
	}

	if err := book.Write(f.writer); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

type xlsxStyles struct {
	header, failed, slow, skipped int
}

func fillStyle(book *excelize.File, color string, bold bool) (int, error) {
	return book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: bold},
		Fill: excelize.Fill{
			Type:    patternType,
			Pattern: patternSolid,
			Color:   []string{color},
		},
	})
}

func newXLSXStyles(book *excelize.File) (*xlsxStyles, error) {
	var s xlsxStyles
	var err error
	if s.header, err = fillStyle(book, headerBgColor, true); err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	if s.failed, err = fillStyle(book, failedBgColor, false); err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	if s.slow, err = fillStyle(book, slowBgColor, false); err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	if s.skipped, err = fillStyle(book, skippedBgColor, false); err != nil {
		return nil, fmt.Errorf("creating style: %w", err)
	}
	return &s, nil
}

func (f *XLSXFormatter) writeSheet(book *excelize.File, sheet string, report *runner.Report, styles *xlsxStyles) error {
	lastCol, _ := excelize.ColumnNumberToName(len(xlsxHeaders))
	if err := book.SetColWidth(sheet, "A", lastCol, defaultColWidth); err != nil {
		return fmt.Errorf("setting column width: %w", err)
	}
	// Name, URL and Detail
	for _, col := range []string{"B", "D", "H"} {
		if err := book.SetColWidth(sheet, col, col, wideColWidth); err != nil {
			return fmt.Errorf("setting column width: %w", err)
		}
	}

	for i, header := range xlsxHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := book.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	if err := book.SetCellStyle(sheet, "A1", lastCol+"1", styles.header); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, r := range report.Results {
		row := i + 2
		cells := []any{
			i + 1,
			r.Name,
			r.Method,
			r.URL,
			statusCell(r),
			r.State.String(),
			string(r.Kind),
			r.Detail,
			r.Duration.Milliseconds(),
			strings.Join(r.Tags, ", "),
		}
		if r.Skipped {
			cells[7] = r.SkipReason
		}

		for col, value := range cells {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := book.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
		}

		style := 0
		switch {
		case r.Skipped:
			style = styles.skipped
		case !r.Passed:
			style = styles.failed
		case r.Duration > f.slow:
			style = styles.slow
		}
		if style != 0 {
			first, _ := excelize.CoordinatesToCellName(1, row)
			last, _ := excelize.CoordinatesToCellName(len(xlsxHeaders), row)
			if err := book.SetCellStyle(sheet, first, last, style); err != nil {
				return fmt.Errorf("styling row %d: %w", row, err)
			}
		}
	}

	return writeSummary(book, sheet, len(report.Results)+3, report)
}

func statusCell(r *runner.CaseResult) any {
	if r.Status == 0 {
		return ""
	}
	return r.Status
}

func writeSummary(book *excelize.File, sheet string, startRow int, report *runner.Report) error {
	rows := [][2]any{
		{"Suite", report.Suite},
		{"Base URL", report.BaseURL},
		{"Started", report.StartedAt.Format(time.RFC3339)},
		{"Total", report.Total()},
		{"Passed", report.Passed},
		{"Failed", report.Failed},
		{"Skipped", report.Skipped},
		{"Duration (ms)", report.Duration.Milliseconds()},
		{"Latency p50 (ms)", report.Latency.P50.Milliseconds()},
		{"Latency p90 (ms)", report.Latency.P90.Milliseconds()},
		{"Latency p99 (ms)", report.Latency.P99.Milliseconds()},
	}

	for i, kv := range rows {
		row := startRow + i
		if err := book.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
		if err := book.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1]); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	return nil
}
