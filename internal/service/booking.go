package service

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
)

// CheckAvailability reports whether no booking of propertyID overlaps
// [checkIn, checkOut).  An existing booking conflicts when it starts
// before checkOut and ends after checkIn, so stays that merely touch are
// compatible.  The check is read-only.
func (s *Service) CheckAvailability(ctx context.Context, propertyID int, checkIn, checkOut time.Time) (bool, error) {
	bookings, err := s.GetBookingsForProperty(ctx, propertyID)
	if err != nil {
		return false, err
	}
	return available(bookings, checkIn, checkOut), nil
}

func available(bookings []model.Booking, checkIn, checkOut time.Time) bool {
	for _, b := range bookings {
		if b.Overlaps(checkIn, checkOut) {
			return false
		}
	}
	return true
}

// BookProperty reserves property for guest over [checkIn, checkOut).
// Unlike CheckAvailability it requires checkIn to be before checkOut and
// returns ErrInvalid otherwise.
//
// The property is re-read under its lock, so a property deleted since the
// caller loaded it yields ErrNotFound and the price comes from the stored
// record.  The availability check and the two inserts (payment, then
// booking) run under the same lock, so two concurrent requests for
// overlapping dates can never both succeed.  The payment is created
// unprocessed with the booking's total price.  A BookingCreated event is
// published after the lock is released.
func (s *Service) BookProperty(ctx context.Context, guest model.Guest, property model.Property, checkIn, checkOut time.Time) (model.Booking, error) {
	const op = "book property"
	if !checkIn.Before(checkOut) {
		return model.Booking{}, newError(op, ErrInvalid, nil)
	}

	booking, stored, err := s.reserve(ctx, op, guest, property.ID, checkIn, checkOut)
	if err != nil {
		return model.Booking{}, err
	}

	s.log.WithFields(logrus.Fields{
		"booking_id":  booking.ID,
		"property_id": stored.ID,
		"guest_id":    guest.ID,
		"total":       booking.TotalPrice,
	}).Info("property booked")

	s.publish(ctx, queue.NewBookingCreated(booking, stored, s.now()))
	return booking, nil
}

// reserve holds the property lock for the check-then-insert sequence.
func (s *Service) reserve(ctx context.Context, op string, guest model.Guest, propertyID int, checkIn, checkOut time.Time) (model.Booking, model.Property, error) {
	unlock := s.propertyLocks.lock(propertyID)
	defer unlock()

	property, err := readByID(ctx, s.stores.Properties, op, propertyID)
	if err != nil {
		return model.Booking{}, model.Property{}, err
	}
	ok, err := s.CheckAvailability(ctx, propertyID, checkIn, checkOut)
	if err != nil {
		return model.Booking{}, model.Property{}, err
	}
	if !ok {
		return model.Booking{}, model.Property{}, newError(op, ErrUnavailable, nil)
	}

	total := model.TotalPrice(property.PricePerNight, checkIn, checkOut)
	payment := model.Payment{Amount: total, Date: s.stamp()}
	if err := s.stores.Payments.Create(ctx, &payment); err != nil {
		return model.Booking{}, model.Property{}, storageError(op, err)
	}

	booking := model.Booking{
		GuestID:      guest.ID,
		PropertyID:   propertyID,
		CheckInDate:  checkIn,
		CheckOutDate: checkOut,
		TotalPrice:   total,
		PaymentID:    payment.ID,
	}
	if err := s.stores.Bookings.Create(ctx, &booking); err != nil {
		// Do not leave an orphan payment behind.
		if delErr := s.stores.Payments.Delete(ctx, payment.ID); delErr != nil {
			s.log.WithError(delErr).WithField("payment_id", payment.ID).Warn("orphan payment cleanup failed")
		}
		return model.Booking{}, model.Property{}, storageError(op, err)
	}
	return booking, property, nil
}

func (s *Service) GetBookingByID(ctx context.Context, id int) (model.Booking, error) {
	return readByID(ctx, s.stores.Bookings, "get booking", id)
}

// GetBookingsForGuest lists the bookings made by guestID.
func (s *Service) GetBookingsForGuest(ctx context.Context, guestID int) ([]model.Booking, error) {
	return filter(ctx, s.stores.Bookings, "get bookings for guest", func(b model.Booking) bool {
		return b.GuestID == guestID
	})
}

// GetBookingsForProperty lists the bookings of propertyID.
func (s *Service) GetBookingsForProperty(ctx context.Context, propertyID int) ([]model.Booking, error) {
	return filter(ctx, s.stores.Bookings, "get bookings for property", func(b model.Booking) bool {
		return b.PropertyID == propertyID
	})
}

// GetAvailablePropertiesByDateSortedByPrice lists the properties with no
// booking strictly containing date, cheapest first.  Properties with the
// same price keep their storage order.
func (s *Service) GetAvailablePropertiesByDateSortedByPrice(ctx context.Context, date time.Time) ([]model.Property, error) {
	const op = "get available properties by date"
	props, err := s.GetAllProperties(ctx)
	if err != nil {
		return nil, err
	}
	bookings, err := s.stores.Bookings.GetAll(ctx)
	if err != nil {
		return nil, storageError(op, err)
	}
	byProperty := make(map[int][]model.Booking)
	for _, b := range bookings {
		byProperty[b.PropertyID] = append(byProperty[b.PropertyID], b)
	}

	out := make([]model.Property, 0, len(props))
	for _, p := range props {
		if available(byProperty[p.ID], date, date) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	return out, nil
}
