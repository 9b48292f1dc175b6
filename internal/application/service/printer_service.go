package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/barberpos-api/internal/config"
	"github.com/sangkips/barberpos-api/internal/domain/entity"
	"github.com/sangkips/barberpos-api/pkg/money"
	"github.com/sangkips/barberpos-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer   printer.Printer
	sales     *SaleService
	shop      config.ShopConfig
	charWidth int
	loc       *time.Location
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	sales *SaleService,
	shop config.ShopConfig,
	charWidth int,
	loc *time.Location,
) *PrinterService {
	return &PrinterService{
		printer:   p,
		sales:     sales,
		shop:      shop,
		charWidth: charWidth,
		loc:       loc,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
	Target     string `json:"target,omitempty"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	st := s.printer.Status(ctx)
	return &PrinterStatus{
		Configured: st.Type != "none",
		Connected:  st.Connected,
		Type:       st.Type,
		Target:     st.Target,
	}
}

func (s *PrinterService) header() entity.ReceiptHeader {
	return entity.ReceiptHeader{
		ShopName: s.shop.Name,
		Address:  s.shop.Address,
		Phone:    s.shop.Phone,
	}
}

// TestPrint sends a test page to the printer.
// The receipt is returned even when printing fails.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.Receipt, error) {
	receipt := &entity.Receipt{
		Header:        s.header(),
		InvoiceCode:   "INV-TEST-000",
		Date:          time.Now().In(s.loc).Format("2006-01-02 15:04"),
		Cashier:       "System",
		PaymentMethod: "cash",
		Items: []entity.ReceiptItem{
			{Name: "Printer test", Quantity: 1, UnitPrice: 10000, Subtotal: 10000},
			{Name: "Alignment check with a long service name", Quantity: 2, UnitPrice: 5000, Subtotal: 10000},
		},
		Total:          20000,
		CurrencySymbol: s.shop.CurrencySymbol,
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		return receipt, fmt.Errorf("test print failed: %w", err)
	}
	return receipt, nil
}

// BuildReceipt loads a sale and composes its receipt view
func (s *PrinterService) BuildReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.sales.GetSale(ctx, saleID)
	if err != nil {
		return nil, err
	}
	return NewReceipt(sale, s.header(), s.shop.CurrencySymbol, s.loc), nil
}

// PrintSaleReceipt prints the receipt of a sale. A printer failure still
// returns the receipt alongside the error.
func (s *PrinterService) PrintSaleReceipt(ctx context.Context, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.charWidth)); err != nil {
		log.Printf("Printer error (sale %s): %v", saleID, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

// NewReceipt maps a sale onto its printable form
func NewReceipt(sale *entity.Sale, header entity.ReceiptHeader, symbol string, loc *time.Location) *entity.Receipt {
	receipt := &entity.Receipt{
		Header:         header,
		InvoiceCode:    sale.InvoiceCode,
		Date:           sale.SoldAt.In(loc).Format("2006-01-02 15:04"),
		PaymentMethod:  sale.PaymentMethod.String(),
		Total:          sale.TotalAmount,
		CurrencySymbol: symbol,
		Items:          make([]entity.ReceiptItem, 0, len(sale.Items)),
	}
	if sale.Cashier != nil {
		receipt.Cashier = sale.Cashier.Name
	}
	if sale.Barber != nil {
		receipt.Barber = sale.Barber.Name
	}
	if sale.CustomerName != nil {
		receipt.Customer = *sale.CustomerName
	}
	for _, item := range sale.Items {
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes for a printer
// width characters wide.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.Align(printer.AlignCenter).
		Bold(true).
		Size(printer.SizeDouble).
		Text(r.Header.ShopName).
		Size(printer.SizeNormal).
		Bold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.Align(printer.AlignLeft).Rule('-')

	doc.Columns("Invoice:", r.InvoiceCode).
		Columns("Date:", r.Date)
	if r.Cashier != "" {
		doc.Columns("Cashier:", r.Cashier)
	}
	if r.Barber != "" {
		doc.Columns("Barber:", r.Barber)
	}
	if r.Customer != "" {
		doc.Columns("Customer:", r.Customer)
	}
	doc.Columns("Payment:", strings.ToUpper(r.PaymentMethod))

	doc.Rule('-')

	for _, item := range r.Items {
		doc.Columns(fmt.Sprintf("%dx %s", item.Quantity, item.Name), money.Format(item.Subtotal))
		if item.Quantity > 1 {
			doc.Text("  @ " + money.Format(item.UnitPrice))
		}
	}

	doc.Rule('-')

	doc.Bold(true).
		Columns("TOTAL", money.FormatWithSymbol(r.CurrencySymbol, r.Total)).
		Bold(false)

	doc.Rule('-')

	doc.Align(printer.AlignCenter).
		QRCode(r.InvoiceCode, 5).
		Feed(1).
		Text("Thank you, see you next time!").
		Align(printer.AlignLeft)

	doc.Feed(3).Cut()

	return doc.Bytes()
}
