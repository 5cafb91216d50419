package shopping

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"foodgram/domain"

	"github.com/go-pdf/fpdf"
)

const (
	FormatPDF  = "pdf"
	FormatText = "txt"

	title      = "Shopping list"
	emptyLine  = "Your shopping cart is empty."
	fileBase   = "shopping_list"
	fontFamily = "DejaVu"
)

// Core PDF fonts only cover cp1252; ingredient names are often Cyrillic.
var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte
	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

// ContentType returns the MIME type and attachment file name for a format.
func ContentType(format string) (string, string, error) {
	switch format {
	case FormatPDF:
		return "application/pdf", fileBase + ".pdf", nil
	case FormatText:
		return "text/plain; charset=utf-8", fileBase + ".txt", nil
	default:
		return "", "", domain.ErrUnsupportedFormat
	}
}

func Render(w io.Writer, format string, items []domain.ShoppingListItem) error {
	switch format {
	case FormatPDF:
		return RenderPDF(w, items)
	case FormatText:
		return RenderText(w, items)
	default:
		return domain.ErrUnsupportedFormat
	}
}

func line(item domain.ShoppingListItem) string {
	return fmt.Sprintf("%s (%s) - %d", item.Name, item.MeasurementUnit, item.Amount)
}

func RenderText(w io.Writer, items []domain.ShoppingListItem) error {
	var buf bytes.Buffer
	buf.WriteString(title + "\n\n")
	if len(items) == 0 {
		buf.WriteString(emptyLine + "\n")
	}
	for i, item := range items {
		fmt.Fprintf(&buf, "%d. %s\n", i+1, line(item))
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func newPDF(items []domain.ShoppingListItem) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetCreator("foodgram", true)
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)

	pdf.AddPage()
	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont(fontFamily, "", 12)
	if len(items) == 0 {
		pdf.CellFormat(0, 8, emptyLine, "", 1, "L", false, 0, "")
	}
	for i, item := range items {
		pdf.CellFormat(0, 8, fmt.Sprintf("%d. %s", i+1, line(item)), "", 1, "L", false, 0, "")
	}
	return pdf
}

func RenderPDF(w io.Writer, items []domain.ShoppingListItem) error {
	return newPDF(items).Output(w)
}
