package entity

// CostCenter is an accounting bucket a goods request charges against.
type CostCenter struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	NameEN string `json:"name_en"`
}
