package entity

import "time"

// Inquiry is one of the price inquiries procurement collects for a goods
// request. Management later selects exactly one as the winner.
type Inquiry struct {
	ID          string  `json:"id"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
	ImageBase64 string  `json:"image_base64,omitempty"`
	IsSelected  bool    `json:"is_selected"`
}

// Receipt records one delivery against a goods request. A receipt counts
// as settled only once both procurement and the requester have confirmed
// it independently.
type Receipt struct {
	ID                     string     `json:"id"`
	Number                 string     `json:"receipt_number"`
	Quantity               int        `json:"quantity"`
	UnitPrice              float64    `json:"unit_price"`
	TotalPrice             float64    `json:"total_price"`
	ConfirmedByProcurement bool       `json:"confirmed_by_procurement"`
	ConfirmedByRequester   bool       `json:"confirmed_by_requester"`
	ProcurementConfirmedAt *time.Time `json:"procurement_confirmed_at,omitempty"`
	RequesterConfirmedAt   *time.Time `json:"requester_confirmed_at,omitempty"`
	ProcurementReceiptDate string     `json:"procurement_receipt_date,omitempty"`
	ProcurementReceiptTime string     `json:"procurement_receipt_time,omitempty"`
	RequesterReceiptDate   string     `json:"requester_receipt_date,omitempty"`
	RequesterReceiptTime   string     `json:"requester_receipt_time,omitempty"`
	CreatedAt              time.Time  `json:"created_at"`
}

// Confirmed reports whether the receipt carries both confirmations.
func (r Receipt) Confirmed() bool {
	return r.ConfirmedByProcurement && r.ConfirmedByRequester
}

// GoodsRequest is a request to purchase goods, moving through procurement,
// management, purchase, receipt, invoice and financial approval stages.
type GoodsRequest struct {
	WorkflowDocument

	ItemName      string    `json:"item_name"`
	Quantity      int       `json:"quantity"`
	CostCenter    string    `json:"cost_center"`
	NeedDate      string    `json:"need_date,omitempty"`
	ImageBase64   string    `json:"image_base64,omitempty"`
	Description   string    `json:"description,omitempty"`
	Inquiries     []Inquiry `json:"inquiries"`
	Receipts      []Receipt `json:"receipts"`
	InvoiceBase64 string    `json:"invoice_base64,omitempty"`
}

// AllReceiptsConfirmed reports whether every receipt is bilaterally
// confirmed. False when no receipts exist yet.
func (g *GoodsRequest) AllReceiptsConfirmed() bool {
	if len(g.Receipts) == 0 {
		return false
	}
	for _, r := range g.Receipts {
		if !r.Confirmed() {
			return false
		}
	}
	return true
}

// FindReceipt returns a pointer to the receipt with the given id, or nil.
func (g *GoodsRequest) FindReceipt(id string) *Receipt {
	for i := range g.Receipts {
		if g.Receipts[i].ID == id {
			return &g.Receipts[i]
		}
	}
	return nil
}

// TotalPurchased sums received quantity and spend across all receipts.
func (g *GoodsRequest) TotalPurchased() (quantity int, total float64) {
	for _, r := range g.Receipts {
		quantity += r.Quantity
		total += r.TotalPrice
	}
	return quantity, total
}
