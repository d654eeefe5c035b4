package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"shareit/internal/domain"
	"shareit/internal/models"
)

const sheetName = "Bookings"

// ReportWriter renders booking reports as Excel workbooks.
type ReportWriter struct {
	repo   domain.Repository
	path   string
	logger *zerolog.Logger
}

func NewReportWriter(repo domain.Repository, path string, logger *zerolog.Logger) *ReportWriter {
	return &ReportWriter{repo: repo, path: path, logger: logger}
}

// WriteBookingsReport writes every booking overlapping [from, to] to a new
// xlsx file and returns its path.
func (w *ReportWriter) WriteBookingsReport(ctx context.Context, from, to time.Time) (string, error) {
	if err := os.MkdirAll(w.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	bookings, err := w.repo.GetBookingsInRange(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("load bookings: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Bookings %s - %s",
		from.Format("2006-01-02"), to.Format("2006-01-02")))
	_ = f.MergeCell(sheetName, "A1", "H1")
	if titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	}); err == nil {
		_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	}

	w.writeHeaders(f)

	itemNames := make(map[int64]string)
	userNames := make(map[int64]string)
	for i, booking := range bookings {
		row := i + 3
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), w.itemName(ctx, itemNames, booking.ItemID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), w.userName(ctx, userNames, booking.BookerID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Start.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.End.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), string(booking.Status))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), booking.CreatedAt.Format("2006-01-02 15:04"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), booking.End.Sub(booking.Start).Round(time.Minute).String())

		if styleID, err := w.statusStyle(f, booking.Status); err == nil {
			_ = f.SetCellStyle(sheetName, fmt.Sprintf("F%d", row), fmt.Sprintf("F%d", row), styleID)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 8)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 20)
	_ = f.SetColWidth(sheetName, "F", "H", 14)
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_%s_to_%s.xlsx",
		from.Format("2006-01-02"), to.Format("2006-01-02"))
	filePath := filepath.Join(w.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	w.logger.Info().Str("file_path", filePath).Int("bookings", len(bookings)).Msg("booking report written")
	return filePath, nil
}

func (w *ReportWriter) writeHeaders(f *excelize.File) {
	headers := []string{"ID", "Item", "Booker", "Start", "End", "Status", "Created", "Duration"}
	headerStyle, styleErr := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		_ = f.SetCellValue(sheetName, cell, header)
		if styleErr == nil {
			_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
	}
}

func (w *ReportWriter) statusStyle(f *excelize.File, status models.BookingStatus) (int, error) {
	color := "#FFEB9C" // WAITING
	switch status {
	case models.StatusApproved:
		color = "#C6EFCE"
	case models.StatusRejected:
		color = "#FFC7CE"
	}
	return f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
	})
}

func (w *ReportWriter) itemName(ctx context.Context, cache map[int64]string, itemID int64) string {
	if name, ok := cache[itemID]; ok {
		return name
	}
	name := fmt.Sprintf("item %d", itemID)
	if item, err := w.repo.GetItem(ctx, itemID); err == nil {
		name = item.Name
	}
	cache[itemID] = name
	return name
}

func (w *ReportWriter) userName(ctx context.Context, cache map[int64]string, userID int64) string {
	if name, ok := cache[userID]; ok {
		return name
	}
	name := fmt.Sprintf("user %d", userID)
	if user, err := w.repo.GetUser(ctx, userID); err == nil {
		name = user.Name
	}
	cache[userID] = name
	return name
}
