package entity

// ReceiptHeader holds the shop header printed at the top of a receipt.
type ReceiptHeader struct {
	ShopName string `json:"shop_name"`
	Address  string `json:"address,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

// Receipt is a printable view of a sale, composed at print time.
type Receipt struct {
	Header         ReceiptHeader `json:"header"`
	InvoiceCode    string        `json:"invoice_code"`
	Date           string        `json:"date"`
	Cashier        string        `json:"cashier,omitempty"`
	Barber         string        `json:"barber,omitempty"`
	Customer       string        `json:"customer,omitempty"`
	PaymentMethod  string        `json:"payment_method"`
	Items          []ReceiptItem `json:"items"`
	Total          int64         `json:"total"`
	CurrencySymbol string        `json:"currency_symbol"`
}
