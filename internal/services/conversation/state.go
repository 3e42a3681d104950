package conversation

type State string

const (
	StateCollectOrderID State = "collect_order_id"
	StateCollectEmail   State = "collect_email"
	StateCollectZip     State = "collect_zip"
	StateConfirmFields  State = "confirm_fields"
	StateLookup         State = "lookup"
	StatePresentResult  State = "present_result"
	StateFollowUp       State = "follow_up"
	StateEnd            State = "end"
	StateEscalate       State = "escalate"
	StateAborted        State = "aborted"
)

func (s State) Terminal() bool {
	return s == StateEnd || s == StateEscalate || s == StateAborted
}

// EscalationReason says why a session was handed to a human agent.
type EscalationReason string

const (
	ReasonInvalidOrderID       EscalationReason = "invalid_order_id"
	ReasonInvalidEmail         EscalationReason = "invalid_email"
	ReasonInvalidZip           EscalationReason = "invalid_zip"
	ReasonDeclinedConfirmation EscalationReason = "declined_confirmation"
	ReasonLookupNotFound       EscalationReason = "lookup_not_found"
	ReasonLookupEmailMismatch  EscalationReason = "lookup_email_mismatch"
	ReasonLookupZipMismatch    EscalationReason = "lookup_zip_mismatch"
	ReasonLookupUnavailable    EscalationReason = "lookup_unavailable"
)
