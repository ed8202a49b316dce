package domain

type OrderStatus string

const (
	// StatusAwaitingEvidence заказ создан, ждём подтверждение оплаты от покупателя;
	StatusAwaitingEvidence OrderStatus = "awaiting_payment_evidence"
	// StatusPendingVerification покупатель приложил чек, ждём решения;
	StatusPendingVerification OrderStatus = "pending_verification"
	// StatusPaid оплата подтверждена;
	StatusPaid OrderStatus = "paid"
	// StatusRejected оплата отклонена, терминальный статус;
	StatusRejected OrderStatus = "rejected"
	// StatusInProgress исполнители приступили к работе;
	StatusInProgress OrderStatus = "in_progress"
	// StatusDelivering заказ передаётся покупателю;
	StatusDelivering OrderStatus = "delivering"
	// StatusDone заказ выполнен, терминальный статус.
	StatusDone OrderStatus = "done"
)

// Unresolved reports whether the payment for the order has not been decided yet.
func (s OrderStatus) Unresolved() bool {
	return s == StatusAwaitingEvidence || s == StatusPendingVerification
}

// Active reports whether workers may join, leave or move the order forward.
func (s OrderStatus) Active() bool {
	return s == StatusPaid || s == StatusInProgress || s == StatusDelivering
}

// Confirmed reports whether payment for the order has already been accepted.
func (s OrderStatus) Confirmed() bool {
	return s.Active() || s == StatusDone
}

var stages = map[OrderStatus]bool{
	StatusInProgress: true,
	StatusDelivering: true,
	StatusDone:       true,
}

// IsStage reports whether s is a valid target of a progress change.
func IsStage(s OrderStatus) bool {
	return stages[s]
}

// CanAdvance reports whether a progress change from one status to a stage is legal.
func CanAdvance(from, to OrderStatus) bool {
	return from.Active() && IsStage(to)
}

// PaymentStatus is the answer of the payment oracle.
type PaymentStatus string

const (
	PaymentUnknown PaymentStatus = "unknown"
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func ParsePaymentStatus(s string) PaymentStatus {
	switch PaymentStatus(s) {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return PaymentStatus(s)
	default:
		return PaymentUnknown
	}
}
