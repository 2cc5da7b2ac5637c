package model

import "time"

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// Booking reserves a property for a guest over the half-open interval
// [CheckInDate, CheckOutDate).  TotalPrice is fixed at booking time as
// PricePerNight multiplied by the number of whole nights.  The booking
// references its payment by id; the Payment record is authoritative for
// the processed state.
type Booking struct {
	ID           int       `json:"id"`
	GuestID      int       `json:"guest_id"`
	PropertyID   int       `json:"property_id"`
	CheckInDate  time.Time `json:"check_in_date"`
	CheckOutDate time.Time `json:"check_out_date"`
	TotalPrice   float64   `json:"total_price"`
	PaymentID    int       `json:"payment_id"`
}

func (b *Booking) GetID() int   { return b.ID }
func (b *Booking) SetID(id int) { b.ID = id }

// Overlaps reports whether the booking conflicts with a requested stay
// [checkIn, checkOut).  Touching intervals (one ends when the other
// starts) do not overlap.
func (b Booking) Overlaps(checkIn, checkOut time.Time) bool {
	return b.CheckInDate.Before(checkOut) && b.CheckOutDate.After(checkIn)
}

// Nights returns the number of whole nights covered by the booking.
func (b Booking) Nights() int64 {
	return NightsBetween(b.CheckInDate, b.CheckOutDate)
}

// NightsBetween truncates the distance between two instants to whole
// days: the millisecond difference is divided by the length of a day
// with integer division, so partial days never round up.
func NightsBetween(start, end time.Time) int64 {
	return (end.UnixMilli() - start.UnixMilli()) / millisPerDay
}

// TotalPrice is the flat nightly rate multiplied by the night count.
func TotalPrice(pricePerNight float64, checkIn, checkOut time.Time) float64 {
	return pricePerNight * float64(NightsBetween(checkIn, checkOut))
}
