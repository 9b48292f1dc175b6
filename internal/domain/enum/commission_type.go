package enum

// CommissionType selects how a barber's pay is derived from their sales
type CommissionType string

const (
	// CommissionPercentage pays value percent of the revenue generated
	CommissionPercentage CommissionType = "percentage"
	// CommissionFlat pays value per recorded sale
	CommissionFlat CommissionType = "flat"
)

func (t CommissionType) String() string {
	return string(t)
}

func (t CommissionType) IsValid() bool {
	return t == CommissionPercentage || t == CommissionFlat
}
