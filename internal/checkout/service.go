package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/pharmachain-portal/internal/cart"
	"github.com/wichananm65/pharmachain-portal/internal/events"
	"github.com/wichananm65/pharmachain-portal/internal/pricing"
	"github.com/wichananm65/pharmachain-portal/internal/session"
)

// OrderGateway opens and verifies orders on the backend.
type OrderGateway interface {
	CreateOrder(ctx context.Context, token string, req OrderRequest) (PaymentSession, error)
	VerifyPayment(ctx context.Context, token string, cb Callback) (Confirmation, error)
}

// Caller identifies who is checking out.
type Caller struct {
	SessionID string
	UserID    string
	Token     string
}

type Service struct {
	carts     *cart.Service
	repo      session.Repository
	orders    OrderGateway
	publisher events.Publisher
	now       func() time.Time

	mu sync.Mutex
}

func NewService(carts *cart.Service, repo session.Repository, orders OrderGateway, pub events.Publisher) *Service {
	return &Service{
		carts:     carts,
		repo:      repo,
		orders:    orders,
		publisher: pub,
		now:       time.Now,
	}
}

func (s *Service) loadState(ctx context.Context, sid string) (State, error) {
	var st State
	err := session.GetJSON(ctx, s.repo, sid, session.KeyCheckout, &st)
	if errors.Is(err, session.ErrNotFound) {
		return State{Status: StatusCartPopulated}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("load checkout state: %w", err)
	}
	return st, nil
}

func (s *Service) saveState(ctx context.Context, sid string, st State) error {
	st.UpdatedAt = s.now().UTC()
	if err := session.PutJSON(ctx, s.repo, sid, session.KeyCheckout, st); err != nil {
		return fmt.Errorf("save checkout state: %w", err)
	}
	return nil
}

func (s *Service) loadShipping(ctx context.Context, sid string) (*ShippingInfo, error) {
	var info ShippingInfo
	err := session.GetJSON(ctx, s.repo, sid, session.KeyShippingInfo, &info)
	if errors.Is(err, session.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load shipping info: %w", err)
	}
	return &info, nil
}

func (s *Service) nonEmptyCart(ctx context.Context, sid string) ([]cart.Line, error) {
	lines, err := s.carts.For(sid).Lines(ctx)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	return lines, nil
}

func (s *Service) Summary(ctx context.Context, sid string) (Summary, error) {
	lines, err := s.carts.For(sid).Lines(ctx)
	if err != nil {
		return Summary{}, err
	}
	st, err := s.loadState(ctx, sid)
	if err != nil {
		return Summary{}, err
	}
	shipping, err := s.loadShipping(ctx, sid)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Status:        st.Status,
		Items:         lines,
		Totals:        cart.Totals(lines),
		ShippingInfo:  shipping,
		PaymentMethod: st.PaymentMethod,
		FailureReason: st.FailureReason,
	}, nil
}

// SaveShipping stores the delivery details for this attempt.
func (s *Service) SaveShipping(ctx context.Context, sid string, info ShippingInfo) (State, error) {
	info.normalize()
	if err := info.Validate(); err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.nonEmptyCart(ctx, sid); err != nil {
		return State{}, err
	}
	st, err := s.loadState(ctx, sid)
	if err != nil {
		return State{}, err
	}
	if !st.Status.CanTransitionTo(StatusShippingCaptured) {
		return State{}, ErrInvalidTransition
	}
	if err := session.PutJSON(ctx, s.repo, sid, session.KeyShippingInfo, info); err != nil {
		return State{}, fmt.Errorf("save shipping info: %w", err)
	}
	st.Status = StatusShippingCaptured
	st.FailureReason = ""
	st.ProviderOrderID = ""
	return st, s.saveState(ctx, sid, st)
}

func (s *Service) SelectPaymentMethod(ctx context.Context, sid string, m PaymentMethod) (State, error) {
	if _, err := ParsePaymentMethod(string(m)); err != nil {
		return State{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.nonEmptyCart(ctx, sid); err != nil {
		return State{}, err
	}
	shipping, err := s.loadShipping(ctx, sid)
	if err != nil {
		return State{}, err
	}
	if shipping == nil {
		return State{}, ErrShippingRequired
	}
	st, err := s.loadState(ctx, sid)
	if err != nil {
		return State{}, err
	}
	if !st.Status.CanTransitionTo(StatusPaymentMethodSelected) {
		return State{}, ErrInvalidTransition
	}
	st.Status = StatusPaymentMethodSelected
	st.PaymentMethod = m
	st.FailureReason = ""
	return st, s.saveState(ctx, sid, st)
}

// PlaceOrder submits cart and shipping to the backend and returns the
// payment session the browser must open. On failure the cart and shipping
// info are kept so the user can retry.
func (s *Service) PlaceOrder(ctx context.Context, who Caller) (PaymentSession, error) {
	sid := who.SessionID
	lines, err := s.nonEmptyCart(ctx, sid)
	if err != nil {
		return PaymentSession{}, err
	}
	shipping, err := s.loadShipping(ctx, sid)
	if err != nil {
		return PaymentSession{}, err
	}
	if shipping == nil {
		return PaymentSession{}, ErrShippingRequired
	}
	st, err := s.loadState(ctx, sid)
	if err != nil {
		return PaymentSession{}, err
	}
	if st.PaymentMethod == "" {
		return PaymentSession{}, ErrPaymentMethodRequired
	}
	if !st.Status.CanTransitionTo(StatusPaymentPending) {
		return PaymentSession{}, ErrInvalidTransition
	}

	total := cart.Totals(lines).Total
	ps, err := s.orders.CreateOrder(ctx, who.Token, OrderRequest{
		ShippingInfo:  *shipping,
		CartItems:     lines,
		PaymentMethod: st.PaymentMethod,
	})
	if err != nil {
		s.fail(ctx, who, st, StatusPaymentFailed, events.PaymentFailed, total, err)
		return PaymentSession{}, err
	}
	if ps.Amount != pricing.ToMinorUnits(total) {
		err := fmt.Errorf("%w: provider %s, cart %s", ErrAmountMismatch, pricing.FromMinorUnits(ps.Amount), total)
		st.ProviderOrderID = ps.ID
		s.fail(ctx, who, st, StatusPaymentFailed, events.PaymentFailed, total, err)
		return PaymentSession{}, err
	}

	s.mu.Lock()
	st.Status = StatusPaymentPending
	st.ProviderOrderID = ps.ID
	st.Amount = total
	st.FailureReason = ""
	err = s.saveState(ctx, sid, st)
	s.mu.Unlock()
	if err != nil {
		return PaymentSession{}, err
	}

	s.publish(ctx, events.Event{
		Type:          events.OrderCreated,
		SessionID:     sid,
		UserID:        who.UserID,
		OrderID:       ps.ID,
		Amount:        total,
		PaymentMethod: string(st.PaymentMethod),
	})
	return ps, nil
}

// Verify checks the provider callback with the backend. Success clears
// cart, shipping info and checkout state together.
func (s *Service) Verify(ctx context.Context, who Caller, cb Callback) (Confirmation, error) {
	sid := who.SessionID
	st, err := s.loadState(ctx, sid)
	if err != nil {
		return Confirmation{}, err
	}
	if st.Status != StatusPaymentPending {
		return Confirmation{}, ErrNoPendingPayment
	}
	if !cb.complete() || (st.ProviderOrderID != "" && cb.OrderID != st.ProviderOrderID) {
		s.fail(ctx, who, st, StatusVerificationFailed, events.VerificationFailed, st.Amount, ErrCallbackMismatch)
		return Confirmation{}, ErrCallbackMismatch
	}

	conf, err := s.orders.VerifyPayment(ctx, who.Token, cb)
	if err != nil {
		s.fail(ctx, who, st, StatusVerificationFailed, events.VerificationFailed, st.Amount, err)
		return Confirmation{}, err
	}
	if conf.PaymentMethod == "" {
		conf.PaymentMethod = string(st.PaymentMethod)
	}
	if conf.TotalAmount.IsZero() {
		conf.TotalAmount = st.Amount
	}
	if conf.TransactionID == "" {
		conf.TransactionID = cb.PaymentID
	}

	s.mu.Lock()
	err = s.carts.For(sid).Clear(ctx, session.KeyShippingInfo, session.KeyCheckout)
	s.mu.Unlock()
	if err != nil {
		return Confirmation{}, fmt.Errorf("clear checkout: %w", err)
	}

	s.publish(ctx, events.Event{
		Type:          events.PaymentConfirmed,
		SessionID:     sid,
		UserID:        who.UserID,
		OrderID:       conf.OrderID,
		Amount:        conf.TotalAmount,
		PaymentMethod: conf.PaymentMethod,
	})
	return conf, nil
}

// ReportPaymentFailure records that the hosted checkout was dismissed or
// declined. Reporting an attempt that already ended changes nothing.
func (s *Service) ReportPaymentFailure(ctx context.Context, who Caller, reason string) (State, error) {
	st, err := s.loadState(ctx, who.SessionID)
	if err != nil {
		return State{}, err
	}
	if st.Status.IsTerminal() {
		return st, nil
	}
	if st.Status != StatusPaymentPending {
		return State{}, ErrNoPendingPayment
	}
	if reason == "" {
		reason = "payment was not completed"
	}
	return s.fail(ctx, who, st, StatusPaymentFailed, events.PaymentFailed, st.Amount, errors.New(reason)), nil
}

func (s *Service) fail(ctx context.Context, who Caller, st State, to Status, kind events.Type, amount decimal.Decimal, cause error) State {
	s.mu.Lock()
	st.Status = to
	st.FailureReason = cause.Error()
	if err := s.saveState(ctx, who.SessionID, st); err != nil {
		log.Errorf("checkout: record %s for session %s: %v", to, who.SessionID, err)
	}
	s.mu.Unlock()

	s.publish(ctx, events.Event{
		Type:          kind,
		SessionID:     who.SessionID,
		UserID:        who.UserID,
		OrderID:       st.ProviderOrderID,
		Amount:        amount,
		PaymentMethod: string(st.PaymentMethod),
		Reason:        cause.Error(),
	})
	return st
}

// publish never fails the checkout; delivery problems are logged.
func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	e.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.Warnf("checkout: publish %s: %v", e.Type, err)
	}
}
