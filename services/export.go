package services

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	imagesSheet       = "Images"
	pesertaPaketSheet = "PesertaPaket"
)

// ExportService renders the site document as an Excel workbook for the admins.
type ExportService struct {
	store SiteStore
}

func NewExportService(store SiteStore) *ExportService {
	return &ExportService{store: store}
}

// ExportFilename is the suggested download name for a workbook built at t.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("skb-site-%s.xlsx", t.UTC().Format("20060102-150405"))
}

// BuildWorkbook returns a workbook with one sheet for the gallery and one for
// the participant statistics. The caller must Close it.
func (s *ExportService) BuildWorkbook(ctx context.Context) (*excelize.File, error) {
	images, err := s.store.ListImages(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.GetPesertaPaket(ctx)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", imagesSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	headers := []interface{}{"No", "Image ID", "Alt Text", "URL", "Cloudinary ID", "Created At", "Updated At"}
	if err := f.SetSheetRow(imagesSheet, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, img := range images {
		row := []interface{}{
			i + 1,
			img.ImageID,
			img.ImageAlt,
			img.ImageURL,
			img.CloudinaryID,
			img.CreatedAt.UTC().Format(time.RFC3339),
			img.UpdatedAt.UTC().Format(time.RFC3339),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(imagesSheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write image row: %w", err)
		}
	}

	if _, err := f.NewSheet(pesertaPaketSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	rows := [][]interface{}{
		{"Program", "Jumlah"},
		{"Siswa PAUD", stats.SiswaPAUD},
		{"Paket A", stats.PaketA},
		{"Paket B", stats.PaketB},
		{"Paket C", stats.PaketC},
	}
	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(pesertaPaketSheet, cell, &rows[i]); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write statistics row: %w", err)
		}
	}

	return f, nil
}
