package entity

// RequestType classifies what a payment request pays for.
type RequestType string

const (
	RequestTypePurchase  RequestType = "purchase"
	RequestTypeProject   RequestType = "project"
	RequestTypePettyCash RequestType = "petty_cash"
	RequestTypeSalary    RequestType = "salary"
	RequestTypeOther     RequestType = "other"
)

// PaymentReason is the stated purpose of a payment row.
type PaymentReason string

const (
	PaymentReasonPrepayment PaymentReason = "prepayment"
	PaymentReasonSettlement PaymentReason = "settlement"
)

// PaymentMethod is how a row is paid out, set by financial.
type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCheck PaymentMethod = "check"
	PaymentMethodOther PaymentMethod = "other"
)

// PaymentRow is one line of a payment request. The requester fills the
// amount and reason; financial later sets the payment method and date.
type PaymentRow struct {
	ID                    string        `json:"id"`
	Amount                float64       `json:"amount"`
	InvoiceContractNumber string        `json:"invoice_contract_number,omitempty"`
	Reason                PaymentReason `json:"reason"`
	CostCenter            string        `json:"cost_center,omitempty"`
	PaymentMethod         PaymentMethod `json:"payment_method,omitempty"`
	PaymentMethodOther    string        `json:"payment_method_other,omitempty"`
	AccountNumber         string        `json:"account_number,omitempty"`
	BankName              string        `json:"bank_name,omitempty"`
	AccountHolderName     string        `json:"account_holder_name,omitempty"`
	PaymentDate           string        `json:"payment_date,omitempty"`
	Notes                 string        `json:"notes,omitempty"`
}

// PaymentRequest is a request for payment moving through financial review,
// development-manager approval and final payout.
type PaymentRequest struct {
	WorkflowDocument

	RequestType      RequestType  `json:"request_type"`
	RequestTypeOther string       `json:"request_type_other,omitempty"`
	TotalAmount      float64      `json:"total_amount"`
	Rows             []PaymentRow `json:"payment_rows"`
	AttachmentBase64 string       `json:"attachment_base64,omitempty"`
	InvoiceBase64    string       `json:"invoice_base64,omitempty"`
}

// FindRow returns a pointer to the payment row with the given id, or nil.
func (p *PaymentRequest) FindRow(id string) *PaymentRow {
	for i := range p.Rows {
		if p.Rows[i].ID == id {
			return &p.Rows[i]
		}
	}
	return nil
}
