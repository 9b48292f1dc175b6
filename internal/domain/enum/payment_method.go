package enum

// PaymentMethod is how a sale was settled
type PaymentMethod string

const (
	PaymentMethodCash       PaymentMethod = "cash"
	PaymentMethodElectronic PaymentMethod = "electronic"
)

// PaymentMethods lists every accepted payment method
var PaymentMethods = []PaymentMethod{PaymentMethodCash, PaymentMethodElectronic}

func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether p is one of the closed set
func (p PaymentMethod) IsValid() bool {
	switch p {
	case PaymentMethodCash, PaymentMethodElectronic:
		return true
	}
	return false
}
