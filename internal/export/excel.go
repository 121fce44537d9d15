package export

import (
	"fmt"
	"io"

	"glowslot/internal/models"

	"github.com/xuri/excelize/v2"
)

var bookingColumns = []string{"Date", "Time", "Customer", "Contact", "Service", "Status", "Reference", "Created"}

// WriteBookingsXLSX writes the bookings as an Excel workbook with one
// "Bookings" sheet.
func WriteBookingsXLSX(w io.Writer, bookings []models.Booking) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Bookings"
	f.SetSheetName("Sheet1", sheet)

	for i, col := range bookingColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return err
		}
	}

	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		endCell, _ := excelize.CoordinatesToCellName(len(bookingColumns), 1)
		_ = f.SetCellStyle(sheet, "A1", endCell, style)
	}

	for row, b := range bookings {
		values := bookingRow(b)
		for col, val := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func bookingRow(b models.Booking) []any {
	return []any{
		b.Date, b.Time, b.CustomerName, b.CustomerContact,
		b.Item, b.Status, b.Reference, b.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
