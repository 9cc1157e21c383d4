package export

import (
	"fmt"
	"io"
	"time"

	"shareit/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	SheetName   = "Bookings"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	dateLayout = "02.01.2006 15:04"
)

var headers = []string{"ID", "Item", "Item ID", "Booker ID", "Start", "End", "Status"}

// FileName builds the attachment name for an owner's export.
func FileName(ownerID int64, state models.BookingState, at time.Time) string {
	return fmt.Sprintf("bookings_%d_%s_%s.xlsx", ownerID, state, at.UTC().Format("20060102_150405"))
}

// WriteBookings renders bookings as a single-sheet workbook into w, with
// title in a merged first row.
func WriteBookings(w io.Writer, title string, bookings []*models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	// Заголовок выгрузки
	_ = f.SetCellValue(SheetName, "A1", title)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	_ = f.MergeCell(SheetName, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(SheetName, "A1", "A1", titleStyle)

	writeHeaders(f)

	if err := writeRows(f, bookings); err != nil {
		return err
	}

	_ = f.SetColWidth(SheetName, "A", "A", 8)
	_ = f.SetColWidth(SheetName, "B", "B", 30)
	_ = f.SetColWidth(SheetName, "C", "D", 12)
	_ = f.SetColWidth(SheetName, "E", "F", 20)
	_ = f.SetColWidth(SheetName, "G", "G", 12)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return fmt.Errorf("error writing workbook: %w", err)
	}
	return nil
}

func writeHeaders(f *excelize.File) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(SheetName, cell, h)
		_ = f.SetCellStyle(SheetName, cell, cell, style)
	}
}

func writeRows(f *excelize.File, bookings []*models.Booking) error {
	for i, b := range bookings {
		row := i + 3
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{
			b.ID,
			b.ItemName,
			b.ItemID,
			b.BookerID,
			b.Start.UTC().Format(dateLayout),
			b.End.UTC().Format(dateLayout),
			string(b.Status),
		}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("error writing row %d: %w", row, err)
		}

		if color := statusColor(b.Status); color != "" {
			style, _ := f.NewStyle(&excelize.Style{
				Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
			})
			statusCell, _ := excelize.CoordinatesToCellName(len(headers), row)
			_ = f.SetCellStyle(SheetName, statusCell, statusCell, style)
		}
	}
	return nil
}

func statusColor(status models.BookingStatus) string {
	switch status {
	case models.StatusApproved:
		return "#C6EFCE"
	case models.StatusWaiting:
		return "#FFEB9C"
	case models.StatusRejected:
		return "#FFC7CE"
	default:
		return ""
	}
}
