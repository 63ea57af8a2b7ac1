package workflow

import "fmt"

// ValidateFunc checks the action-specific payload against the current
// document before any mutation happens.
type ValidateFunc func(doc Document, payload any) error

// ApplyFunc performs the type-specific payload mutation for an action,
// e.g. appending inquiries or marking the selected one.
type ApplyFunc func(doc Document, payload any) error

// ConditionFunc evaluates a derived condition on the full document state.
type ConditionFunc func(doc Document) bool

// Target selects who is notified after a rule commits. Exactly one of
// Role, ToOwner or UserID should be set.
type Target struct {
	// Role fans out to every user holding the role.
	Role Role

	// ToOwner notifies the document owner.
	ToOwner bool

	// UserID resolves a specific user from the document, e.g. an assigned
	// feasibility manager. An empty result suppresses the notification.
	UserID func(doc Document) string

	// Message renders the notification text for the document.
	Message func(doc Document) string
}

// Rule describes what a single (status, action) table entry permits: who
// may act, where the document goes, what the payload must look like, and
// who is told about it afterwards.
type Rule struct {
	// Roles an actor must intersect with. Empty means no role restriction
	// beyond OwnerOnly (admins always pass).
	Roles []Role

	// OwnerOnly restricts the action to the document owner.
	OwnerOnly bool

	// Next is the status the document transitions to. Empty means the
	// action does not itself transition status (e.g. a receipt
	// confirmation, which only feeds an auto-advance condition).
	Next Status

	// Record is the action name written to the ledger. Empty means the
	// action leaves no ledger entry.
	Record Action

	// Validate and Apply hold the action's payload constraint check and
	// domain mutation. Either may be nil.
	Validate ValidateFunc
	Apply    ApplyFunc

	// Notify lists who is told after the write commits.
	Notify []Target
}

// AutoRule is a condition-triggered transition evaluated against the full
// document state after an action succeeds while the document sits in From.
// Only the actions listed in On are checked: evaluating after unrelated
// actions would let the condition hijack their outcome, e.g. a backward
// rejection into a status whose condition already holds. The canonical
// example is advancing to pending_invoice once every receipt is bilaterally
// confirmed, triggered by the two confirmation actions.
type AutoRule struct {
	From   Status
	To     Status
	On     []Action
	When   ConditionFunc
	Notify []Target
}

// Triggers reports whether the given action may satisfy this rule. An empty
// On set matches every action.
func (a AutoRule) Triggers(action Action) bool {
	if len(a.On) == 0 {
		return true
	}
	for _, on := range a.On {
		if on == action {
			return true
		}
	}
	return false
}

// Table is the declarative per-document-type transition map:
// (current status, action) -> Rule.
type Table struct {
	docType string
	rules   map[Status]map[Action]Rule
	auto    []AutoRule
}

// NewTable creates an empty transition table for a document type.
func NewTable(docType string) *Table {
	return &Table{
		docType: docType,
		rules:   make(map[Status]map[Action]Rule),
	}
}

// DocType returns the document type this table governs.
func (t *Table) DocType() string {
	return t.docType
}

// StatusConfig configures the rules available in one status.
type StatusConfig struct {
	table *Table
	from  Status
}

// From returns a configuration handle for the given status.
func (t *Table) From(status Status) *StatusConfig {
	if _, ok := t.rules[status]; !ok {
		t.rules[status] = make(map[Action]Rule)
	}
	return &StatusConfig{table: t, from: status}
}

// Permit registers a rule for an action in this status. Registering the
// same action twice is a programming error and panics at table build time.
func (c *StatusConfig) Permit(action Action, rule Rule) *StatusConfig {
	if _, exists := c.table.rules[c.from][action]; exists {
		panic(fmt.Sprintf("workflow: duplicate rule for (%s, %s) in %s table", c.from, action, c.table.docType))
	}
	c.table.rules[c.from][action] = rule
	return c
}

// Auto registers a condition-triggered transition.
func (t *Table) Auto(rule AutoRule) *Table {
	t.auto = append(t.auto, rule)
	return t
}

// Lookup returns the rule for the (status, action) pair, if any.
func (t *Table) Lookup(status Status, action Action) (Rule, bool) {
	actions, ok := t.rules[status]
	if !ok {
		return Rule{}, false
	}
	rule, ok := actions[action]
	return rule, ok
}

// AutoRules returns the condition-triggered transitions leaving the given
// status.
func (t *Table) AutoRules(status Status) []AutoRule {
	var out []AutoRule
	for _, a := range t.auto {
		if a.From == status {
			out = append(out, a)
		}
	}
	return out
}

// PermittedActions returns the actions defined for a status, useful for
// clients rendering available operations.
func (t *Table) PermittedActions(status Status) []Action {
	actions := make([]Action, 0, len(t.rules[status]))
	for a := range t.rules[status] {
		actions = append(actions, a)
	}
	return actions
}
