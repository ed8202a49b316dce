package orderservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/GlebRadaev/fulfillment/internal/apperr"
	"github.com/GlebRadaev/fulfillment/internal/domain"
	"github.com/GlebRadaev/fulfillment/internal/service/payoutservice"
	"github.com/GlebRadaev/fulfillment/internal/session"
	"github.com/GlebRadaev/fulfillment/pkg/keylock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Repo interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int) (*domain.Order, error)
	FindByBuyer(ctx context.Context, buyerID int) ([]domain.Order, error)
	FindAll(ctx context.Context, limit int) ([]domain.Order, error)
	FindForReconciliation(ctx context.Context, limit uint32) ([]domain.Order, error)
	Update(ctx context.Context, order *domain.Order, expected domain.OrderStatus) (bool, error)
}

type ProductRepo interface {
	FindByID(ctx context.Context, id int) (*domain.Product, error)
}

type Assignments interface {
	IsAssigned(ctx context.Context, orderID, workerID int) (bool, error)
}

type Settler interface {
	Settle(ctx context.Context, order *domain.Order) ([]domain.Payout, error)
}

type ReviewOpener interface {
	Open(ctx context.Context, order *domain.Order) error
}

type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

type Sessions interface {
	Get(ctx context.Context, userID int) (session.State, error)
	Set(ctx context.Context, userID int, st session.State) error
	Clear(ctx context.Context, userID int) error
}

const adminOrdersLimit = 100

// Source tells who confirms or rejects a payment.
type Source int

const (
	SourceAdmin Source = iota
	SourceReconciler
)

func (s Source) String() string {
	if s == SourceReconciler {
		return "reconciler"
	}
	return "admin"
}

type Service struct {
	repo        Repo
	products    ProductRepo
	assignments Assignments
	settler     Settler
	reviews     ReviewOpener
	notifier    Notifier
	sessions    Sessions
	locker      *keylock.Locker
}

func New(repo Repo, products ProductRepo, assignments Assignments, settler Settler, reviews ReviewOpener, notifier Notifier, sessions Sessions, locker *keylock.Locker) *Service {
	return &Service{
		repo:        repo,
		products:    products,
		assignments: assignments,
		settler:     settler,
		reviews:     reviews,
		notifier:    notifier,
		sessions:    sessions,
		locker:      locker,
	}
}

func (s *Service) CreateOrder(ctx context.Context, buyerID, productID int) (*domain.Order, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		zap.L().Error("failed to get product", zap.Int("product_id", productID), zap.Error(err))
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("product %d: %w", productID, apperr.ErrNotFound)
	}

	order := &domain.Order{
		BuyerID:    buyerID,
		ProductID:  productID,
		Price:      product.Price,
		Status:     domain.StatusAwaitingEvidence,
		PaymentRef: uuid.NewString(),
		CreatedAt:  time.Now(),
	}
	if err := s.repo.Create(ctx, order); err != nil {
		zap.L().Error("can't save order", zap.Error(err))
		return nil, err
	}
	zap.L().Info("order created", zap.Int("order_id", order.ID), zap.Int("buyer_id", buyerID), zap.String("price", order.Price.StringFixed(2)))

	st := session.State{Kind: session.KindAwaitingEvidence, OrderID: order.ID}
	if err := s.sessions.Set(ctx, buyerID, st); err != nil {
		zap.L().Warn("failed to set session", zap.Int("user_id", buyerID), zap.Error(err))
	}
	return order, nil
}

// SubmitEvidence attaches the buyer's proof of payment. A repeated submission only replaces the reference.
func (s *Service) SubmitEvidence(ctx context.Context, orderID, buyerID int, evidenceRef string) (*domain.Order, error) {
	evidenceRef = strings.TrimSpace(evidenceRef)
	if evidenceRef == "" {
		return nil, fmt.Errorf("empty evidence: %w", apperr.ErrInvalidArgument)
	}

	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, apperr.ErrUnauthorized
	}

	prev := order.Status
	switch prev {
	case domain.StatusAwaitingEvidence:
		order.Status = domain.StatusPendingVerification
	case domain.StatusPendingVerification:
	default:
		return nil, s.invalid(order, "submit evidence")
	}
	order.EvidenceRef = evidenceRef

	if err := s.save(ctx, order, prev); err != nil {
		return nil, err
	}
	if prev == domain.StatusAwaitingEvidence {
		s.notify(ctx, domain.Notification{Kind: domain.NotifyEvidenceSubmitted, OrderID: order.ID, Status: order.Status})
		s.clearEvidenceSession(ctx, order)
	}
	return order, nil
}

// clearEvidenceSession drops the buyer's evidence prompt unless it already points at another order.
func (s *Service) clearEvidenceSession(ctx context.Context, order *domain.Order) {
	current, err := s.sessions.Get(ctx, order.BuyerID)
	if err != nil {
		zap.L().Warn("failed to read session", zap.Int("user_id", order.BuyerID), zap.Error(err))
		return
	}
	if current.Kind != session.KindAwaitingEvidence || current.OrderID != order.ID {
		return
	}
	if err := s.sessions.Clear(ctx, order.BuyerID); err != nil {
		zap.L().Warn("failed to clear session", zap.Int("user_id", order.BuyerID), zap.Error(err))
	}
}

func (s *Service) AdminDecide(ctx context.Context, orderID int, actor domain.Actor, approve bool) (*domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	if approve {
		return s.ConfirmPayment(ctx, orderID, SourceAdmin)
	}
	return s.RejectPayment(ctx, orderID, SourceAdmin)
}

// ConfirmPayment moves the order to paid. It is the single confirmation path for admins and the
// reconciler, and confirming an order whose payment is already accepted changes nothing.
func (s *Service) ConfirmPayment(ctx context.Context, orderID int, source Source) (*domain.Order, error) {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status.Confirmed() {
		zap.L().Debug("payment already confirmed", zap.Int("order_id", orderID), zap.Stringer("source", source))
		return order, nil
	}
	if order.Status == domain.StatusRejected {
		return nil, s.invalid(order, "confirm payment")
	}
	if source == SourceAdmin && order.Status != domain.StatusPendingVerification {
		return nil, s.invalid(order, "confirm payment")
	}

	prev := order.Status
	order.Status = domain.StatusPaid
	order.PaymentChecked = true
	if err := s.save(ctx, order, prev); err != nil {
		return nil, err
	}

	zap.L().Info("payment confirmed", zap.Int("order_id", orderID), zap.Stringer("source", source))
	s.notify(ctx, domain.Notification{Kind: domain.NotifyPaymentConfirmed, OrderID: order.ID, RecipientID: order.BuyerID, Status: order.Status})
	return order, nil
}

// RejectPayment moves the order to rejected. Admins reject only after evidence was submitted.
func (s *Service) RejectPayment(ctx context.Context, orderID int, source Source) (*domain.Order, error) {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Status == domain.StatusRejected {
		return order, nil
	}
	if !order.Status.Unresolved() {
		return nil, s.invalid(order, "reject payment")
	}
	if source == SourceAdmin && order.Status != domain.StatusPendingVerification {
		return nil, s.invalid(order, "reject payment")
	}

	prev := order.Status
	order.Status = domain.StatusRejected
	order.PaymentChecked = true
	if err := s.save(ctx, order, prev); err != nil {
		return nil, err
	}

	zap.L().Info("payment rejected", zap.Int("order_id", orderID), zap.Stringer("source", source))
	s.notify(ctx, domain.Notification{Kind: domain.NotifyPaymentRejected, OrderID: order.ID, RecipientID: order.BuyerID, Status: order.Status})
	return order, nil
}

// RecordPollAttempt counts one inconclusive answer of the payment oracle. When maxAttempts is
// reached the order stops being polled and stays in its status until someone decides manually.
func (s *Service) RecordPollAttempt(ctx context.Context, orderID, maxAttempts int) (*domain.Order, error) {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Unresolved() || order.PaymentChecked {
		return order, nil
	}

	order.ReconcileAttempts++
	exhausted := order.ReconcileAttempts >= maxAttempts
	if exhausted {
		order.PaymentChecked = true
	}
	if err := s.save(ctx, order, order.Status); err != nil {
		return nil, err
	}

	if exhausted {
		zap.L().Warn("payment not resolved, giving up", zap.Int("order_id", orderID), zap.Int("attempts", order.ReconcileAttempts))
		s.notify(ctx, domain.Notification{Kind: domain.NotifyPaymentTimeout, OrderID: order.ID, RecipientID: order.BuyerID, Status: order.Status})
		s.notify(ctx, domain.Notification{Kind: domain.NotifyPaymentTimeout, OrderID: order.ID, Status: order.Status})
	}
	return order, nil
}

// Advance moves a paid order between work stages. Only an admin or a worker assigned to the
// order may do it. Completing the order settles payouts and opens reviews once.
func (s *Service) Advance(ctx context.Context, orderID int, actor domain.Actor, stage domain.OrderStatus) (*domain.Order, error) {
	if !domain.IsStage(stage) {
		return nil, fmt.Errorf("stage %q: %w", stage, apperr.ErrInvalidArgument)
	}

	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, order, actor); err != nil {
		return nil, err
	}

	if order.Status == domain.StatusDone && stage == domain.StatusDone {
		// status was written before but payouts or the review prompt may not have been
		if _, err := s.settler.Settle(ctx, order); err != nil && !errors.Is(err, payoutservice.ErrNoAssignedWorkers) {
			return nil, err
		}
		if err := s.reviews.Open(ctx, order); err != nil {
			zap.L().Warn("failed to open reviews", zap.Int("order_id", orderID), zap.Error(err))
		}
		return order, nil
	}
	if !domain.CanAdvance(order.Status, stage) {
		return nil, s.invalid(order, "advance to "+string(stage))
	}
	if order.Status == stage {
		return order, nil
	}

	prev := order.Status
	now := time.Now()
	order.Status = stage
	switch stage {
	case domain.StatusInProgress:
		if order.StartedAt == nil {
			order.StartedAt = &now
		}
	case domain.StatusDone:
		if order.CompletedAt == nil {
			order.CompletedAt = &now
		}
	}
	if err := s.save(ctx, order, prev); err != nil {
		return nil, err
	}
	zap.L().Info("order advanced", zap.Int("order_id", orderID),
		zap.String("from", string(prev)), zap.String("to", string(stage)), zap.Int("actor", actor.UserID))

	if stage != domain.StatusDone {
		s.notify(ctx, domain.Notification{Kind: domain.NotifyStageChanged, OrderID: order.ID, RecipientID: order.BuyerID, Status: stage})
		return order, nil
	}

	s.notify(ctx, domain.Notification{Kind: domain.NotifyOrderDone, OrderID: order.ID, RecipientID: order.BuyerID, Status: stage})
	if _, err := s.settler.Settle(ctx, order); err != nil {
		if !errors.Is(err, payoutservice.ErrNoAssignedWorkers) {
			return nil, err
		}
		s.notify(ctx, domain.Notification{Kind: domain.NotifyPayoutUnassigned, OrderID: order.ID, Status: stage})
	}
	if err := s.reviews.Open(ctx, order); err != nil {
		zap.L().Warn("failed to open reviews", zap.Int("order_id", orderID), zap.Error(err))
	}
	return order, nil
}

// GetOrder returns the order to its buyer, to admins and to workers.
func (s *Service) GetOrder(ctx context.Context, orderID int, actor domain.Actor) (*domain.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != actor.UserID && actor.Role != domain.RoleAdmin && actor.Role != domain.RoleWorker {
		return nil, apperr.ErrUnauthorized
	}
	return order, nil
}

func (s *Service) GetOrders(ctx context.Context, buyerID int) ([]domain.Order, error) {
	orders, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return orders, nil
}

// ListAll returns the newest orders of every buyer to an admin.
func (s *Service) ListAll(ctx context.Context, actor domain.Actor) ([]domain.Order, error) {
	if !actor.IsAdmin() {
		return nil, apperr.ErrUnauthorized
	}
	orders, err := s.repo.FindAll(ctx, adminOrdersLimit)
	if err != nil {
		zap.L().Error("failed to get orders", zap.Error(err))
		return nil, err
	}
	return orders, nil
}

func (s *Service) FindForReconciliation(ctx context.Context, limit uint32) ([]domain.Order, error) {
	return s.repo.FindForReconciliation(ctx, limit)
}

// PollTarget reads the payment reference under the order lock. ok is false once the payment
// is resolved or no longer polled.
func (s *Service) PollTarget(ctx context.Context, orderID int) (ref string, ok bool, err error) {
	unlock := s.locker.Lock(orderID)
	defer unlock()

	order, err := s.load(ctx, orderID)
	if err != nil {
		return "", false, err
	}
	if !order.Status.Unresolved() || order.PaymentChecked {
		return "", false, nil
	}
	return order.PaymentRef, true, nil
}

func (s *Service) load(ctx context.Context, orderID int) (*domain.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		zap.L().Error("failed to get order", zap.Int("order_id", orderID), zap.Error(err))
		return nil, err
	}
	if order == nil {
		return nil, fmt.Errorf("order %d: %w", orderID, apperr.ErrNotFound)
	}
	return order, nil
}

// save writes the order only if nobody changed its status since it was read.
func (s *Service) save(ctx context.Context, order *domain.Order, expected domain.OrderStatus) error {
	ok, err := s.repo.Update(ctx, order, expected)
	if err != nil {
		zap.L().Error("failed to update order", zap.Int("order_id", order.ID), zap.Error(err))
		return err
	}
	if !ok {
		zap.L().Warn("order changed concurrently", zap.Int("order_id", order.ID), zap.String("expected", string(expected)))
		return fmt.Errorf("order %d: %w", order.ID, apperr.ErrConflict)
	}
	return nil
}

func (s *Service) authorize(ctx context.Context, order *domain.Order, actor domain.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	assigned, err := s.assignments.IsAssigned(ctx, order.ID, actor.UserID)
	if err != nil {
		return err
	}
	if !assigned {
		return apperr.ErrUnauthorized
	}
	return nil
}

func (s *Service) invalid(order *domain.Order, op string) error {
	return fmt.Errorf("%s on order %d in status %s: %w", op, order.ID, order.Status, apperr.ErrInvalidState)
}

func (s *Service) notify(ctx context.Context, n domain.Notification) {
	n.CreatedAt = time.Now()
	if err := s.notifier.Notify(ctx, n); err != nil {
		zap.L().Warn("failed to send notification", zap.String("kind", string(n.Kind)), zap.Int("order_id", n.OrderID), zap.Error(err))
	}
}
