package model

// Host represents a user who lists properties on the marketplace.
// A host owns zero or more properties (Property.HostID).
type Host struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	Phone      string  `json:"phone"`
	HostRating float64 `json:"host_rating"`
}

func (h *Host) GetID() int   { return h.ID }
func (h *Host) SetID(id int) { h.ID = id }

// Guest represents a user who books properties and writes reviews.
type Guest struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	GuestRating float64 `json:"guest_rating"`
}

func (g *Guest) GetID() int   { return g.ID }
func (g *Guest) SetID(id int) { g.ID = id }
