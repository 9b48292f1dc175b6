package service

import (
	"bytes"
	"fmt"
	"image/png"
	"io"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/pkg/money"
)

// Receipt paper is 80mm wide; the page grows with the number of items.
const (
	pdfPageWidth  = 80.0
	pdfMargin     = 5.0
	pdfLineHeight = 5.0
	pdfQRSize     = 30.0
)

// invoiceQR renders code as a PNG QR symbol
func invoiceQR(code string) (*bytes.Buffer, error) {
	qrCode, err := qr.Encode(code, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}
	qrCode, err = barcode.Scale(qrCode, 240, 240)
	if err != nil {
		return nil, fmt.Errorf("scale qr: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return &buf, nil
}

// WriteReceiptPDF renders the receipt as a single page PDF
func WriteReceiptPDF(w io.Writer, r *entity.Receipt) error {
	height := 110.0 + float64(len(r.Items))*2*pdfLineHeight
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: pdfPageWidth, Ht: height},
	})
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	inner := pdfPageWidth - 2*pdfMargin

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(inner, 7, tr(r.Header.ShopName), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	if r.Header.Address != "" {
		pdf.MultiCell(inner, 4, tr(r.Header.Address), "", "C", false)
	}
	if r.Header.Phone != "" {
		pdf.CellFormat(inner, 4, tr(r.Header.Phone), "", 1, "C", false, 0, "")
	}
	rule(pdf, inner)

	pair := func(label, value string) {
		pdf.CellFormat(inner/3, pdfLineHeight, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(inner*2/3, pdfLineHeight, tr(value), "", 1, "R", false, 0, "")
	}
	pair("Invoice", r.InvoiceCode)
	pair("Date", r.Date)
	if r.Cashier != "" {
		pair("Cashier", r.Cashier)
	}
	if r.Barber != "" {
		pair("Barber", r.Barber)
	}
	if r.Customer != "" {
		pair("Customer", r.Customer)
	}
	pair("Payment", r.PaymentMethod)
	rule(pdf, inner)

	for _, item := range r.Items {
		pdf.CellFormat(inner*2/3, pdfLineHeight, tr(item.Name), "", 0, "L", false, 0, "")
		pdf.CellFormat(inner/3, pdfLineHeight, money.Format(item.Subtotal), "", 1, "R", false, 0, "")
		pdf.SetFont("Arial", "I", 7)
		pdf.CellFormat(inner, pdfLineHeight-1, fmt.Sprintf("%d x %s", item.Quantity, money.Format(item.UnitPrice)), "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 8)
	}
	rule(pdf, inner)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(inner/2, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(inner/2, 7, tr(money.FormatWithSymbol(r.CurrencySymbol, r.Total)), "", 1, "R", false, 0, "")

	img, err := invoiceQR(r.InvoiceCode)
	if err != nil {
		return err
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("invoice-qr", opts, img)
	pdf.ImageOptions("invoice-qr", (pdfPageWidth-pdfQRSize)/2, pdf.GetY()+3, pdfQRSize, pdfQRSize, false, opts, 0, "")
	pdf.SetY(pdf.GetY() + pdfQRSize + 5)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(inner, 5, "Thank you, see you next time!", "", 1, "C", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}
	return pdf.Output(w)
}

func rule(pdf *gofpdf.Fpdf, width float64) {
	y := pdf.GetY() + 1
	pdf.Line(pdfMargin, y, pdfMargin+width, y)
	pdf.SetY(y + 2)
}
