package model

// Property is a rentable listing owned by a host.  PricePerNight must be
// positive.  Availability is never stored on the property; it is derived
// from the bookings that reference it.  AmenityIDs keeps the order in
// which amenities were attached and may be empty.
type Property struct {
	ID                 int                `json:"id"`
	HostID             int                `json:"host_id"`
	Address            string             `json:"address"`
	PricePerNight      float64            `json:"price_per_night"`
	Description        string             `json:"description"`
	Location           Location           `json:"location"`
	AmenityIDs         []int              `json:"amenity_ids"`
	CancellationPolicy CancellationPolicy `json:"cancellation_policy"`
}

func (p *Property) GetID() int   { return p.ID }
func (p *Property) SetID(id int) { p.ID = id }

// Clone returns a copy of p that does not share its amenity slice.
func (p Property) Clone() Property {
	out := p
	out.AmenityIDs = make([]int, len(p.AmenityIDs))
	copy(out.AmenityIDs, p.AmenityIDs)
	return out
}

// HasAmenity reports whether id is already attached to the property.
func (p Property) HasAmenity(id int) bool {
	for _, a := range p.AmenityIDs {
		if a == id {
			return true
		}
	}
	return false
}
