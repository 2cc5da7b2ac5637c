package model

import "time"

// Payment is created unprocessed together with a booking.  Processing is
// one-way: once Processed is true it never goes back, and processing
// again is a no-op.
type Payment struct {
	ID        int       `json:"id"`
	Amount    float64   `json:"amount"`
	Date      time.Time `json:"date"`
	Processed bool      `json:"processed"`
}

func (p *Payment) GetID() int   { return p.ID }
func (p *Payment) SetID(id int) { p.ID = id }

// Process marks the payment processed.  It returns false when the
// payment was already processed, in which case nothing changed.
func (p *Payment) Process() bool {
	if p.Processed {
		return false
	}
	p.Processed = true
	return true
}
