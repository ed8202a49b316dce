package domain

import "time"

type NotificationKind string

const (
	NotifyEvidenceSubmitted NotificationKind = "evidence_submitted"
	NotifyPaymentConfirmed  NotificationKind = "payment_confirmed"
	NotifyPaymentRejected   NotificationKind = "payment_rejected"
	NotifyPaymentTimeout    NotificationKind = "payment_timeout"
	NotifyWorkerJoined      NotificationKind = "worker_joined"
	NotifyStageChanged      NotificationKind = "stage_changed"
	NotifyOrderDone         NotificationKind = "order_done"
	NotifyPayoutUnassigned  NotificationKind = "payout_unassigned"
	NotifyReviewRequested   NotificationKind = "review_requested"
	NotifyReviewsClosed     NotificationKind = "reviews_closed"
)

// Notification is an event for the chat front-end. RecipientID is zero when it
// is addressed to the operators.
type Notification struct {
	Kind        NotificationKind `json:"kind"`
	OrderID     int              `json:"order_id"`
	RecipientID int              `json:"recipient_id,omitempty"`
	WorkerID    int              `json:"worker_id,omitempty"`
	Status      OrderStatus      `json:"status,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

func (n Notification) ToOperators() bool {
	return n.RecipientID == 0
}
