package lineitem

type Category string

const (
	CategorySalaryAllowance    Category = "salary_allowance"
	CategoryEmployerCost       Category = "employer_cost"
	CategoryStatutoryDeduction Category = "statutory_deduction"
	CategoryManagementFee      Category = "management_fee"
)

var Categories = []Category{
	CategorySalaryAllowance,
	CategoryEmployerCost,
	CategoryStatutoryDeduction,
	CategoryManagementFee,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

type Kind string

const (
	KindComponent             Kind = "component"
	KindPercentage            Kind = "percentage"
	KindPercentageSubtraction Kind = "percentage_subtraction"
	KindSum                   Kind = "sum"
	KindSubtraction           Kind = "subtraction"
	KindFixedAmount           Kind = "fixed_amount"
	KindSectionTotal          Kind = "section_total"
)

type SectionKind string

const (
	SectionSalaryAllowance    SectionKind = "total_salary_allowance"
	SectionEmployerCost       SectionKind = "total_employer_cost"
	SectionStatutoryDeduction SectionKind = "total_statutory_deduction"
	SectionManagementFee      SectionKind = "total_management_fee"
	SectionGrandTotal         SectionKind = "grand_total"
	SectionCostToClient       SectionKind = "total_cost_to_client"
)

// Sections lists every recognised section in presentation order.
var Sections = []SectionKind{
	SectionSalaryAllowance,
	SectionEmployerCost,
	SectionStatutoryDeduction,
	SectionManagementFee,
	SectionGrandTotal,
	SectionCostToClient,
}

var sectionMembers = map[SectionKind][]Category{
	SectionSalaryAllowance:    {CategorySalaryAllowance},
	SectionEmployerCost:       {CategoryEmployerCost},
	SectionStatutoryDeduction: {CategoryStatutoryDeduction},
	SectionManagementFee:      {CategoryManagementFee},
	SectionGrandTotal: {
		CategorySalaryAllowance,
		CategoryEmployerCost,
		CategoryStatutoryDeduction,
		CategoryManagementFee,
	},
	// statutory deductions are employee-borne and never billed to the client
	SectionCostToClient: {
		CategorySalaryAllowance,
		CategoryEmployerCost,
		CategoryManagementFee,
	},
}

var sectionLabels = map[SectionKind]string{
	SectionSalaryAllowance:    "Total Salary & Allowances",
	SectionEmployerCost:       "Total Employer Costs",
	SectionStatutoryDeduction: "Total Statutory Deductions",
	SectionManagementFee:      "Total Management Fees",
	SectionGrandTotal:         "Grand Total",
	SectionCostToClient:       "Total Cost to Client",
}

func (s SectionKind) Valid() bool {
	_, ok := sectionMembers[s]
	return ok
}

// Members returns the categories summed into the section.
func (s SectionKind) Members() []Category {
	return sectionMembers[s]
}

func (s SectionKind) Includes(c Category) bool {
	for _, member := range sectionMembers[s] {
		if member == c {
			return true
		}
	}
	return false
}

func (s SectionKind) Label() string {
	if label, ok := sectionLabels[s]; ok {
		return label
	}
	return string(s)
}
