package messages

import "time"

const (
	EventSessionEscalated       = "session.escalated"
	EventPackageReportedMissing = "package.reported_missing"
	EventDeliveryConfirmed      = "delivery.confirmed"
	EventUpdatesOptedIn         = "updates.opted_in"
	EventDeliveryTipsRequested  = "delivery_tips.requested"
)

// AssistantEvent — то, что ассистент сообщает наружу по ходу разговора.
// Ключ сообщения в Kafka — session_id.
type AssistantEvent struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id"`

	OrderID string `json:"order_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Zip     string `json:"zip,omitempty"`

	Reason  string `json:"reason,omitempty"`
	CaseRef string `json:"case_ref,omitempty"`
	Carrier string `json:"carrier,omitempty"`
	Status  string `json:"status,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}
