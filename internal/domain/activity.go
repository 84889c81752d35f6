package domain

// Workflow names as recorded in the activity feed.
const (
	WorkflowFetch   = "fetch"
	WorkflowCreate  = "create"
	WorkflowExecute = "execute"
)

// Activity outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// ActivityRecord is one settled workflow invocation, persisted for the
// activity view. TxHash is set on success, Reason on failure.
type ActivityRecord struct {
	InvocationID    string
	Workflow        string
	Outcome         string
	ContractAddress string
	TokenID         string

	// Price as the workflow carried it: whole units for create intents,
	// wei for executed orders. Empty for fetch records.
	Price string

	ExpiresAt int64
	TxHash    string
	Reason    string
	CreatedAt int64
}
