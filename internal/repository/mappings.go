package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
)

// Row types mirror the tables created by Migrate.  Business logic never
// sees them; they only exist so sqlx can bind named parameters and scan
// results.

type hostRow struct {
	ID         int     `db:"id"`
	Name       string  `db:"name"`
	Email      string  `db:"email"`
	Phone      string  `db:"phone"`
	HostRating float64 `db:"host_rating"`
}

type guestRow struct {
	ID          int     `db:"id"`
	Name        string  `db:"name"`
	Email       string  `db:"email"`
	Phone       string  `db:"phone"`
	GuestRating float64 `db:"guest_rating"`
}

type locationRow struct {
	ID      int    `db:"id"`
	City    string `db:"city"`
	Country string `db:"country"`
}

type amenityRow struct {
	ID          int    `db:"id"`
	Name        string `db:"name"`
	Description string `db:"description"`
}

type policyRow struct {
	ID          int    `db:"id"`
	Description string `db:"description"`
}

// propertyRow stores the location and cancellation policy as foreign
// keys and reads their columns back through LEFT JOINs.  Amenity ids are
// kept as a JSON array in a text column to preserve their order.
type propertyRow struct {
	ID                   int            `db:"id"`
	HostID               int            `db:"host_id"`
	Address              string         `db:"address"`
	PricePerNight        float64        `db:"price_per_night"`
	Description          string         `db:"description"`
	LocationID           sql.NullInt64  `db:"location_id"`
	City                 sql.NullString `db:"city"`
	Country              sql.NullString `db:"country"`
	AmenityIDs           string         `db:"amenity_ids"`
	CancellationPolicyID sql.NullInt64  `db:"cancellation_policy_id"`
	PolicyDescription    sql.NullString `db:"policy_description"`
}

type bookingRow struct {
	ID           int           `db:"id"`
	GuestID      int           `db:"guest_id"`
	PropertyID   int           `db:"property_id"`
	CheckInDate  time.Time     `db:"check_in_date"`
	CheckOutDate time.Time     `db:"check_out_date"`
	TotalPrice   float64       `db:"total_price"`
	PaymentID    sql.NullInt64 `db:"payment_id"`
}

type paymentRow struct {
	ID        int       `db:"id"`
	Amount    float64   `db:"amount"`
	Date      time.Time `db:"payment_date"`
	Processed bool      `db:"processed"`
}

type reviewRow struct {
	ID         int       `db:"id"`
	GuestID    int       `db:"guest_id"`
	PropertyID int       `db:"property_id"`
	Rating     float64   `db:"rating"`
	Comment    string    `db:"comment"`
	Date       time.Time `db:"review_date"`
}

// dbTime is t as every supported column type keeps it: UTC with
// microsecond precision (DATETIME(6), TIMESTAMPTZ).
func dbTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

func nullID(id int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(id), Valid: id != 0}
}

// nullText is a joined column: present only when the reference is set.
func nullText(s string, id int) sql.NullString {
	return sql.NullString{String: s, Valid: id != 0}
}

var hostMapping = Mapping[model.Host, hostRow]{
	Table:    "hosts",
	Columns:  []string{"name", "email", "phone", "host_rating"},
	Select:   "SELECT id, name, email, phone, host_rating FROM hosts",
	IDColumn: "id",
	ToRow: func(h model.Host) (hostRow, error) {
		return hostRow(h), nil
	},
	FromRow: func(r hostRow) (model.Host, error) {
		return model.Host(r), nil
	},
}

var guestMapping = Mapping[model.Guest, guestRow]{
	Table:    "guests",
	Columns:  []string{"name", "email", "phone", "guest_rating"},
	Select:   "SELECT id, name, email, phone, guest_rating FROM guests",
	IDColumn: "id",
	ToRow: func(g model.Guest) (guestRow, error) {
		return guestRow(g), nil
	},
	FromRow: func(r guestRow) (model.Guest, error) {
		return model.Guest(r), nil
	},
}

var locationMapping = Mapping[model.Location, locationRow]{
	Table:    "locations",
	Columns:  []string{"city", "country"},
	Select:   "SELECT id, city, country FROM locations",
	IDColumn: "id",
	ToRow: func(l model.Location) (locationRow, error) {
		return locationRow(l), nil
	},
	FromRow: func(r locationRow) (model.Location, error) {
		return model.Location(r), nil
	},
}

var amenityMapping = Mapping[model.Amenity, amenityRow]{
	Table:    "amenities",
	Columns:  []string{"name", "description"},
	Select:   "SELECT id, name, description FROM amenities",
	IDColumn: "id",
	ToRow: func(a model.Amenity) (amenityRow, error) {
		return amenityRow(a), nil
	},
	FromRow: func(r amenityRow) (model.Amenity, error) {
		return model.Amenity(r), nil
	},
}

var policyMapping = Mapping[model.CancellationPolicy, policyRow]{
	Table:    "cancellation_policies",
	Columns:  []string{"description"},
	Select:   "SELECT id, description FROM cancellation_policies",
	IDColumn: "id",
	ToRow: func(c model.CancellationPolicy) (policyRow, error) {
		return policyRow(c), nil
	},
	FromRow: func(r policyRow) (model.CancellationPolicy, error) {
		return model.CancellationPolicy(r), nil
	},
}

var propertyMapping = Mapping[model.Property, propertyRow]{
	Table: "properties",
	Columns: []string{
		"host_id", "address", "price_per_night", "description",
		"location_id", "amenity_ids", "cancellation_policy_id",
	},
	Select: `SELECT p.id, p.host_id, p.address, p.price_per_night, p.description,
		p.location_id, l.city, l.country, p.amenity_ids,
		p.cancellation_policy_id, cp.description AS policy_description
		FROM properties p
		LEFT JOIN locations l ON l.id = p.location_id
		LEFT JOIN cancellation_policies cp ON cp.id = p.cancellation_policy_id`,
	IDColumn: "p.id",
	ToRow: func(p model.Property) (propertyRow, error) {
		ids := p.AmenityIDs
		if ids == nil {
			ids = []int{}
		}
		b, err := json.Marshal(ids)
		if err != nil {
			return propertyRow{}, err
		}
		return propertyRow{
			ID:                   p.ID,
			HostID:               p.HostID,
			Address:              p.Address,
			PricePerNight:        p.PricePerNight,
			Description:          p.Description,
			LocationID:           nullID(p.Location.ID),
			City:                 nullText(p.Location.City, p.Location.ID),
			Country:              nullText(p.Location.Country, p.Location.ID),
			AmenityIDs:           string(b),
			CancellationPolicyID: nullID(p.CancellationPolicy.ID),
			PolicyDescription:    nullText(p.CancellationPolicy.Description, p.CancellationPolicy.ID),
		}, nil
	},
	FromRow: func(r propertyRow) (model.Property, error) {
		p := model.Property{
			ID:            r.ID,
			HostID:        r.HostID,
			Address:       r.Address,
			PricePerNight: r.PricePerNight,
			Description:   r.Description,
			AmenityIDs:    []int{},
		}
		if r.AmenityIDs != "" {
			if err := json.Unmarshal([]byte(r.AmenityIDs), &p.AmenityIDs); err != nil {
				return model.Property{}, err
			}
		}
		if r.LocationID.Valid {
			p.Location = model.Location{ID: int(r.LocationID.Int64), City: r.City.String, Country: r.Country.String}
		}
		if r.CancellationPolicyID.Valid {
			p.CancellationPolicy = model.CancellationPolicy{
				ID:          int(r.CancellationPolicyID.Int64),
				Description: r.PolicyDescription.String,
			}
		}
		return p, nil
	},
}

var bookingMapping = Mapping[model.Booking, bookingRow]{
	Table: "bookings",
	Columns: []string{
		"guest_id", "property_id", "check_in_date", "check_out_date", "total_price", "payment_id",
	},
	Select: `SELECT id, guest_id, property_id, check_in_date, check_out_date, total_price, payment_id
		FROM bookings`,
	IDColumn: "id",
	ToRow: func(b model.Booking) (bookingRow, error) {
		return bookingRow{
			ID:           b.ID,
			GuestID:      b.GuestID,
			PropertyID:   b.PropertyID,
			CheckInDate:  dbTime(b.CheckInDate),
			CheckOutDate: dbTime(b.CheckOutDate),
			TotalPrice:   b.TotalPrice,
			PaymentID:    nullID(b.PaymentID),
		}, nil
	},
	FromRow: func(r bookingRow) (model.Booking, error) {
		return model.Booking{
			ID:           r.ID,
			GuestID:      r.GuestID,
			PropertyID:   r.PropertyID,
			CheckInDate:  r.CheckInDate.UTC(),
			CheckOutDate: r.CheckOutDate.UTC(),
			TotalPrice:   r.TotalPrice,
			PaymentID:    int(r.PaymentID.Int64),
		}, nil
	},
}

var paymentMapping = Mapping[model.Payment, paymentRow]{
	Table:    "payments",
	Columns:  []string{"amount", "payment_date", "processed"},
	Select:   "SELECT id, amount, payment_date, processed FROM payments",
	IDColumn: "id",
	ToRow: func(p model.Payment) (paymentRow, error) {
		return paymentRow{ID: p.ID, Amount: p.Amount, Date: dbTime(p.Date), Processed: p.Processed}, nil
	},
	FromRow: func(r paymentRow) (model.Payment, error) {
		return model.Payment{ID: r.ID, Amount: r.Amount, Date: r.Date.UTC(), Processed: r.Processed}, nil
	},
}

var reviewMapping = Mapping[model.Review, reviewRow]{
	Table:    "reviews",
	Columns:  []string{"guest_id", "property_id", "rating", "comment", "review_date"},
	Select:   "SELECT id, guest_id, property_id, rating, comment, review_date FROM reviews",
	IDColumn: "id",
	ToRow: func(r model.Review) (reviewRow, error) {
		return reviewRow{
			ID: r.ID, GuestID: r.GuestID, PropertyID: r.PropertyID,
			Rating: r.Rating, Comment: r.Comment, Date: dbTime(r.Date),
		}, nil
	},
	FromRow: func(r reviewRow) (model.Review, error) {
		return model.Review{
			ID: r.ID, GuestID: r.GuestID, PropertyID: r.PropertyID,
			Rating: r.Rating, Comment: r.Comment, Date: r.Date.UTC(),
		}, nil
	},
}
