package model

// Location is a (city, country) pair referenced by properties.  Two
// locations naming the same city and country describe the same place
// regardless of their ids.
type Location struct {
	ID      int    `json:"id"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (l *Location) GetID() int   { return l.ID }
func (l *Location) SetID(id int) { l.ID = id }

// Equal reports whether l and o name the same city and country.
func (l Location) Equal(o Location) bool {
	return l.City == o.City && l.Country == o.Country
}

// IsZero reports whether the location carries no city and no country.
func (l Location) IsZero() bool {
	return l.City == "" && l.Country == ""
}

// Amenity is a feature offered by a property (wifi, parking, ...).
// Properties reference amenities by id.
type Amenity struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (a *Amenity) GetID() int   { return a.ID }
func (a *Amenity) SetID(id int) { a.ID = id }

// CancellationPolicy is identified by its description text.
type CancellationPolicy struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

func (c *CancellationPolicy) GetID() int   { return c.ID }
func (c *CancellationPolicy) SetID(id int) { c.ID = id }

// Equal reports whether both policies carry the same description.
func (c CancellationPolicy) Equal(o CancellationPolicy) bool {
	return c.Description == o.Description
}

// IsZero reports whether the policy has no description.
func (c CancellationPolicy) IsZero() bool {
	return c.Description == ""
}
