package workflow

import (
	"fmt"

	"github.com/alirezakafim/pardis/internal/domain/entity"
	"github.com/alirezakafim/pardis/internal/domain/workflow"
)

// Payment request statuses.
const (
	PaymentStatusDraft             = workflow.StatusDraft
	PaymentStatusPendingFinancial  workflow.Status = "pending_financial"
	PaymentStatusPendingDevManager workflow.Status = "pending_dev_manager"
	PaymentStatusPendingPayment    workflow.Status = "pending_payment"
	PaymentStatusCompleted         workflow.Status = "completed"
	PaymentStatusRejected          workflow.Status = "rejected"
)

func asPayment(doc workflow.Document) (*entity.PaymentRequest, error) {
	p, ok := doc.(*entity.PaymentRequest)
	if !ok {
		return nil, fmt.Errorf("payment table applied to %T", doc)
	}
	return p, nil
}

// PaymentRequestTable builds the transition table for payment requests:
// draft -> financial sets payment methods -> development manager approval
// -> financial pays out.
func PaymentRequestTable() *workflow.Table {
	t := workflow.NewTable("payment_request")

	t.From(PaymentStatusDraft).
		Permit(ActionSubmit, workflow.Rule{
			OwnerOnly: true,
			Next:      PaymentStatusPendingFinancial,
			Record:    RecordSubmitted,
			Notify: []workflow.Target{{
				Role: workflow.RoleFinancial,
				Message: func(doc workflow.Document) string {
					_, owner := doc.Owner()
					return fmt.Sprintf("New payment request %s from %s", doc.DocumentNumber(), owner)
				},
			}},
		})

	t.From(PaymentStatusPendingFinancial).
		Permit(ActionSetPaymentTypes, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleFinancial},
			Next:     PaymentStatusPendingDevManager,
			Record:   RecordPaymentTypesSet,
			Validate: validatePaymentTypes,
			Apply:    applyPaymentTypes,
			Notify: []workflow.Target{{
				Role: workflow.RoleDevManager,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Payment request %s is ready for approval", doc.DocumentNumber())
				},
			}},
		})

	t.From(PaymentStatusPendingDevManager).
		Permit(ActionApprove, workflow.Rule{
			Roles:  []workflow.Role{workflow.RoleDevManager},
			Next:   PaymentStatusPendingPayment,
			Record: RecordApprovedByDevManager,
			Notify: []workflow.Target{{
				Role: workflow.RoleFinancial,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Payment request %s approved, ready for payout", doc.DocumentNumber())
				},
			}},
		}).
		Permit(ActionReject, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleDevManager},
			Next:     PaymentStatusRejected,
			Record:   RecordRejectedByDevManager,
			Validate: requireNotes,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Payment request %s was rejected", doc.DocumentNumber())
				},
			}},
		})

	t.From(PaymentStatusPendingPayment).
		Permit(ActionProcessPayment, workflow.Rule{
			Roles:    []workflow.Role{workflow.RoleFinancial},
			Next:     PaymentStatusCompleted,
			Record:   RecordCompleted,
			Validate: validateProcessPayment,
			Apply:    applyProcessPayment,
			Notify: []workflow.Target{{
				ToOwner: true,
				Message: func(doc workflow.Document) string {
					return fmt.Sprintf("Payment request %s has been paid", doc.DocumentNumber())
				},
			}},
		})

	return t
}

func validatePaymentTypes(doc workflow.Document, payload any) error {
	pr, err := asPayment(doc)
	if err != nil {
		return err
	}
	p, ok := payload.(SetPaymentTypesPayload)
	if !ok || len(p.Rows) == 0 {
		return invalidf("payment row methods required")
	}
	for _, row := range p.Rows {
		if pr.FindRow(row.RowID) == nil {
			return invalidf("payment row %s not found", row.RowID)
		}
		switch entity.PaymentMethod(row.PaymentMethod) {
		case entity.PaymentMethodCash, entity.PaymentMethodCheck:
		case entity.PaymentMethodOther:
			if row.PaymentMethodOther == "" {
				return invalidf("payment row %s: method description required", row.RowID)
			}
		default:
			return invalidf("payment row %s: unknown method %q", row.RowID, row.PaymentMethod)
		}
	}
	return nil
}

func applyPaymentTypes(doc workflow.Document, payload any) error {
	pr, err := asPayment(doc)
	if err != nil {
		return err
	}
	p := payload.(SetPaymentTypesPayload)
	for _, in := range p.Rows {
		row := pr.FindRow(in.RowID)
		row.PaymentMethod = entity.PaymentMethod(in.PaymentMethod)
		row.PaymentMethodOther = in.PaymentMethodOther
	}
	return nil
}

func validateProcessPayment(_ workflow.Document, payload any) error {
	p, ok := payload.(ProcessPaymentPayload)
	if !ok || p.PaymentDate == "" {
		return invalidf("payment date required")
	}
	return nil
}

func applyProcessPayment(doc workflow.Document, payload any) error {
	pr, err := asPayment(doc)
	if err != nil {
		return err
	}
	p := payload.(ProcessPaymentPayload)
	for i := range pr.Rows {
		pr.Rows[i].PaymentDate = p.PaymentDate
	}
	if p.InvoiceBase64 != "" {
		pr.InvoiceBase64 = p.InvoiceBase64
	}
	return nil
}
