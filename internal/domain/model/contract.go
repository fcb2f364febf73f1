package model

// ContractType distinguishes sales from purchase contracts.
type ContractType string

const (
	ContractTypeSales    ContractType = "S"
	ContractTypePurchase ContractType = "P"
)

// Valid reports whether t is one of the known contract types.
func (t ContractType) Valid() bool {
	return t == ContractTypeSales || t == ContractTypePurchase
}

// Contract is a sales or purchase contract with a monthly billing schedule.
type Contract struct {
	ContractID    int64        `json:"contractId"`
	Type          ContractType `json:"type"`
	Year          int          `json:"year"`
	ContractName  string       `json:"contractName"`
	CompanyName   string       `json:"companyName"`
	ContractStart string       `json:"contractStart"`
	ContractEnd   string       `json:"contractEnd"`
	InvoiceRule   string       `json:"invoiceRule"`
	PaymentTerm   string       `json:"paymentTerm"`
	TotalAmount   int64        `json:"totalAmount"`
	MonthlyAmounts
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
	CreatedBy string `json:"createdBy"`
	UpdatedBy string `json:"updatedBy"`
}

// ContractList groups a year's contracts by type.
type ContractList struct {
	Sales    []Contract `json:"sales"`
	Purchase []Contract `json:"purchase"`
}

// ContractRequest is the body for creating or updating a contract.
// TotalAmount is derived from the monthly amounts before sending.
type ContractRequest struct {
	ContractID    int64        `json:"contractId"`
	Type          ContractType `json:"type"`
	Year          int          `json:"year"`
	ContractName  string       `json:"contractName"`
	CompanyName   string       `json:"companyName"`
	ContractStart string       `json:"contractStart"`
	ContractEnd   string       `json:"contractEnd"`
	InvoiceRule   string       `json:"invoiceRule"`
	PaymentTerm   string       `json:"paymentTerm"`
	TotalAmount   int64        `json:"totalAmount"`
	MonthlyAmounts
}
