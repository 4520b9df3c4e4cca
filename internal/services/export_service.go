package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"triphub/internal/domain"
	"triphub/internal/utils"
)

// ExportService renders trip searches as PDF.
type ExportService struct {
	Trips    *TripService
	Location *time.Location
	Now      func() time.Time
}

// TripsPDF runs the search for f and renders the resulting page.
func (s ExportService) TripsPDF(ctx context.Context, requestID, endpoint string, f domain.FilterSpec) ([]byte, string, error) {
	resp, _, err := s.Trips.Search(ctx, requestID, endpoint, f)
	if err != nil {
		return nil, "", err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	utils.LogEvent(s.Trips.Log, requestID, "export", "trips_pdf", fmt.Sprintf("rows=%d page=%d", len(resp.Data), resp.Pagination.Page))
	return buildTripsPDF(resp, now, s.Location)
}

var tripColumns = []struct {
	title string
	width float64
}{
	{"Provider", 22},
	{"Origin", 38},
	{"Destination", 38},
	{"Departure", 32},
	{"Arrival", 32},
	{"Type", 20},
	{"Operator", 44},
	{"Price", 31},
}

func buildTripsPDF(resp TripsResponse, generatedAt time.Time, loc *time.Location) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Trips", false)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "TRIPS")
	pdf.Ln(10)

	p := resp.Pagination
	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated : %s", utils.FormatDateTime(&generatedAt, loc)))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Page      : %d of %d (%d trips)", p.Page, p.TotalPages, p.Total))
	pdf.Ln(6)
	for _, st := range resp.Providers {
		pdf.Cell(0, 6, fmt.Sprintf("%-9s : %d (%s)", st.Provider, st.Total, st.Status))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range tripColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, t := range resp.Data {
		cells := []string{
			t.Provider,
			t.Origin,
			t.Destination,
			utils.FormatDateTime(t.DepartureTime, loc),
			utils.FormatDateTime(t.ArrivalTime, loc),
			t.TransportType,
			t.OperatorName,
			utils.FormatPrice(t.Price, t.Currency),
		}
		for i, c := range tripColumns {
			align := "L"
			if i == len(tripColumns)-1 {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, fit(pdf, tr(utils.Fallback(cells[i], "-")), c.width-2), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}
	if len(resp.Data) == 0 {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 8, "No trips match the selected filters.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("TRIPS_%s_P%d.pdf", generatedAt.Format("20060102_1504"), p.Page)
	return buf.Bytes(), filename, nil
}

// fit truncates s so it renders within width mm at the current font.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return strings.TrimSpace(string(r)) + "..."
}
