package workflow

import "github.com/alirezakafim/pardis/internal/domain/workflow"

// Action names accepted by the transition tables. Names shared between
// tables (submit, approve, reject) resolve independently per table.
const (
	ActionSubmit                    workflow.Action = "submit"
	ActionAddInquiries              workflow.Action = "add_inquiries"
	ActionApproveInquiry            workflow.Action = "approve"
	ActionRejectWithEdit            workflow.Action = "reject_with_edit"
	ActionRejectComplete            workflow.Action = "reject_complete"
	ActionAddReceipt                workflow.Action = "add_receipt"
	ActionConfirmReceiptProcurement workflow.Action = "confirm_receipt_procurement"
	ActionConfirmReceiptRequester   workflow.Action = "confirm_receipt_requester"
	ActionUploadInvoice             workflow.Action = "upload_invoice"
	ActionApproveFinancial          workflow.Action = "approve_financial"
	ActionReject                    workflow.Action = "reject"

	ActionCOOApprove      workflow.Action = "coo_approve"
	ActionCOOReject       workflow.Action = "coo_reject"
	ActionAssignManager   workflow.Action = "assign_manager"
	ActionRegisterProject workflow.Action = "register_project"

	ActionSetPaymentTypes workflow.Action = "set_payment_types"
	ActionApprove         workflow.Action = "approve"
	ActionProcessPayment  workflow.Action = "process_payment"
)

// Ledger action names, written to history entries.
const (
	RecordCreated         workflow.Action = "created"
	RecordSubmitted       workflow.Action = "submitted"
	RecordInquiriesAdded  workflow.Action = "inquiries_added"
	RecordApproved        workflow.Action = "approved"
	RecordRejected        workflow.Action = "rejected"
	RecordReceiptAdded    workflow.Action = "receipt_added"
	RecordInvoiceUploaded workflow.Action = "invoice_uploaded"
	RecordCompleted       workflow.Action = "completed"

	RecordApprovedByCOO     workflow.Action = "approved_by_coo"
	RecordRejectedByCOO     workflow.Action = "rejected_by_coo"
	RecordManagerAssigned   workflow.Action = "assigned_feasibility_manager"
	RecordProjectRegistered workflow.Action = "registered_project"

	RecordPaymentTypesSet      workflow.Action = "payment_type_set"
	RecordApprovedByDevManager workflow.Action = "approved_by_dev_manager"
	RecordRejectedByDevManager workflow.Action = "rejected_by_dev_manager"
)
