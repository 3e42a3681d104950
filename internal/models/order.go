package models

import (
	"strings"
	"time"
)

// Статусы заказа: набор открытый, ниже только те, что встречаются в seed-данных.
const (
	OrderStatusInTransit      = "In Transit"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
)

type Order struct {
	ID       string `json:"id" yaml:"id"`
	Email    string `json:"email" yaml:"email"`
	Zip      string `json:"zip" yaml:"zip"`
	Status   string `json:"status" yaml:"status"`
	Carrier  string `json:"carrier" yaml:"carrier"`
	LastScan string `json:"last_scan" yaml:"last_scan"`
	ETA      string `json:"eta" yaml:"eta"`
	Notes    string `json:"notes,omitempty" yaml:"notes"`
}

func (o *Order) IsDelivered() bool {
	return strings.EqualFold(o.Status, OrderStatusDelivered)
}

// VerificationInput — то, что пользователь ввёл за сессию. Нигде не сохраняется.
type VerificationInput struct {
	OrderID string
	Email   string
	Zip     string
}

const (
	SupportCaseKindEscalation     = "escalation"
	SupportCaseKindMissingPackage = "missing_package"
)

type SupportCase struct {
	ID         uint64    `json:"id"`
	Kind       string    `json:"kind"`
	SessionID  string    `json:"session_id"`
	OrderID    string    `json:"order_id"`
	Email      string    `json:"email"`
	Zip        string    `json:"zip"`
	Reason     string    `json:"reason,omitempty"`
	CaseRef    *string   `json:"case_ref,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}
