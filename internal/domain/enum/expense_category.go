package enum

// ExpenseCategory groups shop expenses for reporting
type ExpenseCategory string

const (
	ExpenseCategorySupplies    ExpenseCategory = "supplies"
	ExpenseCategoryUtilities   ExpenseCategory = "utilities"
	ExpenseCategoryRent        ExpenseCategory = "rent"
	ExpenseCategorySalary      ExpenseCategory = "salary"
	ExpenseCategoryMaintenance ExpenseCategory = "maintenance"
	ExpenseCategoryOther       ExpenseCategory = "other"
)

// ExpenseCategories lists the categories in display order
var ExpenseCategories = []ExpenseCategory{
	ExpenseCategorySupplies,
	ExpenseCategoryUtilities,
	ExpenseCategoryRent,
	ExpenseCategorySalary,
	ExpenseCategoryMaintenance,
	ExpenseCategoryOther,
}

func (c ExpenseCategory) String() string {
	return string(c)
}

func (c ExpenseCategory) IsValid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}
