package services

import (
	"context"
	"testing"
	"time"

	"skb-backend/internal/testutil"
	"skb-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWorkbook(t *testing.T) {
	store := testutil.NewSiteStore()
	store.Seed(seedImages(2))
	require.NoError(t, store.SetPesertaPaket(context.Background(), models.PesertaPaket{SiswaPAUD: 9, PaketA: 8, PaketB: 7, PaketC: 6}))

	f, err := NewExportService(store).BuildWorkbook(context.Background())
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{imagesSheet, pesertaPaketSheet}, f.GetSheetList())

	rows, err := f.GetRows(imagesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Image ID", rows[0][1])
	assert.Equal(t, "img-0", rows[1][1])
	assert.Equal(t, "img-1", rows[2][1])
	assert.Equal(t, "magang/1", rows[2][4])

	paudCount, err := f.GetCellValue(pesertaPaketSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "9", paudCount)
}

func TestBuildWorkbook_EmptySite(t *testing.T) {
	f, err := NewExportService(testutil.NewSiteStore()).BuildWorkbook(context.Background())
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(imagesSheet)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestExportFilename(t *testing.T) {
	name := ExportFilename(time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	assert.Equal(t, "skb-site-20250102-030405.xlsx", name)
}
