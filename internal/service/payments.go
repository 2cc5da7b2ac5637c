package service

import (
	"context"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
)

// CreatePayment stores p and assigns its id.
func (s *Service) CreatePayment(ctx context.Context, p *model.Payment) error {
	if p == nil {
		return newError("create payment", ErrInvalid, nil)
	}
	if err := s.stores.Payments.Create(ctx, p); err != nil {
		return storageError("create payment", err)
	}
	return nil
}

func (s *Service) GetPaymentByID(ctx context.Context, id int) (model.Payment, error) {
	return readByID(ctx, s.stores.Payments, "get payment", id)
}

// ProcessPayment marks payment id processed.  Processing an already
// processed payment changes nothing and publishes nothing.
func (s *Service) ProcessPayment(ctx context.Context, id int) (model.Payment, error) {
	return s.processPayment(ctx, "process payment", id, 0)
}

// ProcessPaymentForBooking processes the payment attached to b.
func (s *Service) ProcessPaymentForBooking(ctx context.Context, b model.Booking) (model.Payment, error) {
	const op = "process payment for booking"
	if b.PaymentID == 0 {
		return model.Payment{}, newError(op, ErrNotFound, nil)
	}
	return s.processPayment(ctx, op, b.PaymentID, b.ID)
}

func (s *Service) processPayment(ctx context.Context, op string, paymentID, bookingID int) (model.Payment, error) {
	p, changed, err := s.markProcessed(ctx, op, paymentID)
	if err != nil || !changed {
		return p, err
	}
	s.log.WithField("payment_id", p.ID).WithField("amount", p.Amount).Info("payment processed")
	s.publish(ctx, queue.NewPaymentProcessed(p, bookingID, s.now()))
	return p, nil
}

// markProcessed reports whether this call made the transition.
func (s *Service) markProcessed(ctx context.Context, op string, paymentID int) (model.Payment, bool, error) {
	unlock := s.paymentLocks.lock(paymentID)
	defer unlock()

	p, err := readByID(ctx, s.stores.Payments, op, paymentID)
	if err != nil {
		return model.Payment{}, false, err
	}
	if !p.Process() {
		return p, false, nil
	}
	if err := s.stores.Payments.Update(ctx, p); err != nil {
		return model.Payment{}, false, storageError(op, err)
	}
	return p, true, nil
}

// GetPaymentsForHost lists the processed payments of bookings on
// properties owned by hostID.
func (s *Service) GetPaymentsForHost(ctx context.Context, hostID int) ([]model.Payment, error) {
	return s.hostPayments(ctx, "get payments for host", hostID, true)
}

// GetTransactionHistoryForHost lists every payment, processed or not, of
// bookings on properties owned by hostID.
func (s *Service) GetTransactionHistoryForHost(ctx context.Context, hostID int) ([]model.Payment, error) {
	return s.hostPayments(ctx, "get transaction history for host", hostID, false)
}

// hostPayments walks bookings in storage order and resolves their
// payments.  Bookings whose property or payment cannot be resolved are
// skipped.
func (s *Service) hostPayments(ctx context.Context, op string, hostID int, processedOnly bool) ([]model.Payment, error) {
	props, err := s.GetPropertiesForHost(ctx, hostID)
	if err != nil {
		return nil, err
	}
	owned := make(map[int]bool, len(props))
	for _, p := range props {
		owned[p.ID] = true
	}

	bookings, err := s.stores.Bookings.GetAll(ctx)
	if err != nil {
		return nil, storageError(op, err)
	}
	out := make([]model.Payment, 0)
	for _, b := range bookings {
		if !owned[b.PropertyID] || b.PaymentID == 0 {
			continue
		}
		p, found, err := s.stores.Payments.Read(ctx, b.PaymentID)
		if err != nil {
			return nil, storageError(op, err)
		}
		if !found {
			s.log.WithField("booking_id", b.ID).WithField("payment_id", b.PaymentID).Warn("booking references a missing payment")
			continue
		}
		if processedOnly && !p.Processed {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}
