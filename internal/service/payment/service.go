// Package payment reconciles processor payment confirmations into orders.
// Both adapters converge on the same rule: one processor reference, one
// order, no matter how many times the callback arrives.
package payment

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"communityshop/internal/domain"
	"communityshop/internal/processor/altpay"
	"communityshop/internal/processor/card"
	ordersvc "communityshop/internal/service/order"
)

const (
	MethodCard   = "card"
	MethodAltpay = "altpay"
)

type Service struct {
	card     cardClient
	altpay   altpayClient
	orders   orderService
	products catalog
	logger   *log.Logger
}

type cardClient interface {
	GetSession(ctx context.Context, ref string) (*card.Session, error)
}

type altpayClient interface {
	Capture(ctx context.Context, processorOrderID string) (*altpay.CaptureResult, error)
}

type orderService interface {
	Create(ctx context.Context, in ordersvc.CreateInput) (*domain.Order, error)
	GetByPaymentReference(ctx context.Context, ref string) (*domain.Order, error)
}

type catalog interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(cardCli cardClient, altpayCli altpayClient, orders orderService, products catalog, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{card: cardCli, altpay: altpayCli, orders: orders, products: products, logger: logger}
}

// VerifySession reconciles a card-processor checkout session into exactly one
// order. Replayed callbacks for the same capture id return the existing order.
func (s *Service) VerifySession(ctx context.Context, ownerID, sessionRef string) (*domain.Order, error) {
	if strings.TrimSpace(sessionRef) == "" {
		return nil, fmt.Errorf("%w: session reference required", domain.ErrInvalidInput)
	}

	session, err := s.card.GetSession(ctx, sessionRef)
	if err != nil {
		return nil, err
	}
	if session.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	if session.PaymentState != card.PaymentStatePaid {
		return nil, fmt.Errorf("%w: session state %q", domain.ErrPaymentIncomplete, session.PaymentState)
	}
	if session.CaptureID == "" {
		return nil, fmt.Errorf("%w: session carries no capture id", domain.ErrPaymentIncomplete)
	}

	// Fast path for replays; the insert's unique constraint still backstops
	// the race where two callbacks pass this lookup together.
	if existing, err := s.orders.GetByPaymentReference(ctx, session.CaptureID); err == nil {
		s.logger.Printf("payment: replayed card session=%s order=%s", sessionRef, existing.ID)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	lines := make([]ordersvc.LineInput, 0, len(session.LineItems))
	for _, item := range session.LineItems {
		lines = append(lines, ordersvc.LineInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	subtotal, err := s.repriceLines(ctx, lines)
	if err != nil {
		return nil, err
	}

	return s.createOrRecover(ctx, session.CaptureID, ordersvc.CreateInput{
		OwnerID:          ownerID,
		Lines:            lines,
		ShippingAddress:  session.ShippingAddress,
		BillingAddress:   session.BillingAddress,
		SubtotalCents:    subtotal,
		ShippingCents:    session.ShippingCents,
		TaxCents:         session.TaxCents,
		TotalCents:       subtotal + session.ShippingCents + session.TaxCents,
		PaymentMethod:    MethodCard,
		PaymentReference: session.CaptureID,
	})
}

// CaptureInput is the client-supplied order metadata accompanying an
// alternative-processor capture. Line prices are ignored; every line is
// re-priced from the live catalog.
type CaptureInput struct {
	ProcessorOrderID string
	Lines            []ordersvc.LineInput
	ShippingAddress  domain.Address
	BillingAddress   domain.Address
	ShippingCents    int64
	TaxCents         int64
}

// Capture reconciles an alternative-processor payment into exactly one order,
// keyed by the processor's order id. Two simultaneous captures for the same
// id yield one order; the loser receives the winner's.
func (s *Service) Capture(ctx context.Context, ownerID string, in CaptureInput) (*domain.Order, error) {
	if strings.TrimSpace(in.ProcessorOrderID) == "" {
		return nil, fmt.Errorf("%w: processor order id required", domain.ErrInvalidInput)
	}

	result, err := s.altpay.Capture(ctx, in.ProcessorOrderID)
	if err != nil {
		return nil, err
	}
	if result.Status != altpay.StatusCompleted {
		return nil, fmt.Errorf("%w: capture status %q", domain.ErrPaymentIncomplete, result.Status)
	}
	s.logger.Printf("payment: altpay capture order=%s capture=%s amount=%d",
		in.ProcessorOrderID, result.CaptureID, result.AmountCapturedCents)

	if existing, err := s.orders.GetByPaymentReference(ctx, in.ProcessorOrderID); err == nil {
		s.logger.Printf("payment: replayed altpay order=%s existing=%s", in.ProcessorOrderID, existing.ID)
		return existing, nil
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	subtotal, err := s.repriceLines(ctx, in.Lines)
	if err != nil {
		return nil, err
	}

	return s.createOrRecover(ctx, in.ProcessorOrderID, ordersvc.CreateInput{
		OwnerID:          ownerID,
		Lines:            in.Lines,
		ShippingAddress:  in.ShippingAddress,
		BillingAddress:   in.BillingAddress,
		SubtotalCents:    subtotal,
		ShippingCents:    in.ShippingCents,
		TaxCents:         in.TaxCents,
		TotalCents:       subtotal + in.ShippingCents + in.TaxCents,
		PaymentMethod:    MethodAltpay,
		PaymentReference: in.ProcessorOrderID,
	})
}

// repriceLines overwrites each line's unit price with the live catalog price
// and returns the resulting subtotal. Client-supplied prices never reach the
// ledger.
func (s *Service) repriceLines(ctx context.Context, lines []ordersvc.LineInput) (int64, error) {
	var subtotal int64
	for i := range lines {
		product, err := s.products.GetByID(ctx, lines[i].ProductID)
		if err != nil {
			return 0, err
		}
		lines[i].UnitPriceCents = product.PriceCents
		subtotal += product.PriceCents * int64(lines[i].Quantity)
	}
	return subtotal, nil
}

// createOrRecover creates the order and, when the payment reference lost the
// insert race, re-fetches and returns the winner instead of surfacing the
// conflict.
func (s *Service) createOrRecover(ctx context.Context, paymentRef string, in ordersvc.CreateInput) (*domain.Order, error) {
	ord, err := s.orders.Create(ctx, in)
	if err == nil {
		return ord, nil
	}
	if !errors.Is(err, domain.ErrConflict) {
		return nil, err
	}
	existing, err := s.orders.GetByPaymentReference(ctx, paymentRef)
	if err != nil {
		return nil, fmt.Errorf("recover existing order for reference %s: %w", paymentRef, err)
	}
	s.logger.Printf("payment: lost insert race reference=%s winner=%s", paymentRef, existing.ID)
	return existing, nil
}
