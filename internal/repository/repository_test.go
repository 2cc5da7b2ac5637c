package repository

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/storage"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "mysql duplicate", err: &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, want: storage.ErrConstraint},
		{name: "mysql parent row", err: &mysql.MySQLError{Number: 1451}, want: storage.ErrConstraint},
		{name: "mysql child row", err: &mysql.MySQLError{Number: 1452}, want: storage.ErrConstraint},
		{name: "mysql other", err: &mysql.MySQLError{Number: 1146}, want: storage.ErrIO},
		{name: "pq unique", err: &pq.Error{Code: "23505"}, want: storage.ErrConstraint},
		{name: "pq foreign key", err: &pq.Error{Code: "23503"}, want: storage.ErrConstraint},
		{name: "wrapped pq", err: fmt.Errorf("exec: %w", &pq.Error{Code: "23503"}), want: storage.ErrConstraint},
		{name: "connection refused", err: errors.New("dial tcp: connection refused"), want: storage.ErrIO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify("insert bookings", tt.err)
			if !errors.Is(got, tt.want) {
				t.Errorf("classify() = %v, want wrapping %v", got, tt.want)
			}
			if !errors.Is(got, tt.err) {
				t.Errorf("classify() lost the driver error: %v", got)
			}
			if !strings.HasPrefix(got.Error(), "insert bookings: ") {
				t.Errorf("classify() = %q, want op prefix", got)
			}
		})
	}

	if classify("noop", nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestTableSQL(t *testing.T) {
	mysqlTable := NewTable[model.Location](sqlx.NewDb(nil, "mysql"), locationMapping, nil)
	if got, want := mysqlTable.insertSQL(), "INSERT INTO locations (city, country) VALUES (:city, :country)"; got != want {
		t.Errorf("insertSQL() = %q, want %q", got, want)
	}
	if got, want := mysqlTable.updateSQL(), "UPDATE locations SET city = :city, country = :country WHERE id = :id"; got != want {
		t.Errorf("updateSQL() = %q, want %q", got, want)
	}

	pgTable := NewTable[model.Location](sqlx.NewDb(nil, "postgres"), locationMapping, nil)
	if got := pgTable.insertSQL(); !strings.HasSuffix(got, " RETURNING id") {
		t.Errorf("postgres insertSQL() = %q, want RETURNING id", got)
	}
}

func TestPropertyMappingRoundTrip(t *testing.T) {
	p := model.Property{
		ID:                 4,
		HostID:             2,
		Address:            "1 Main St",
		PricePerNight:      120,
		Description:        "Loft",
		Location:           model.Location{ID: 3, City: "Paris", Country: "France"},
		AmenityIDs:         []int{5, 1},
		CancellationPolicy: model.CancellationPolicy{ID: 6, Description: "Strict"},
	}
	row, err := propertyMapping.ToRow(p)
	if err != nil {
		t.Fatalf("ToRow() error = %v", err)
	}
	if row.AmenityIDs != "[5,1]" {
		t.Errorf("amenity_ids = %q, want [5,1]", row.AmenityIDs)
	}
	if !row.LocationID.Valid || row.LocationID.Int64 != 3 {
		t.Errorf("location_id = %+v, want 3", row.LocationID)
	}

	if row.City.String != "Paris" || row.PolicyDescription.String != "Strict" {
		t.Errorf("joined columns = %+v, want the embedded references", row)
	}

	got, err := propertyMapping.FromRow(row)
	if err != nil {
		t.Fatalf("FromRow() error = %v", err)
	}
	if got.ID != 4 || !got.Location.Equal(p.Location) || got.Location.ID != 3 ||
		got.CancellationPolicy != p.CancellationPolicy || len(got.AmenityIDs) != 2 || got.AmenityIDs[0] != 5 {
		t.Errorf("FromRow() = %+v, want %+v", got, p)
	}
}

func TestPropertyMappingWithoutReferences(t *testing.T) {
	row, err := propertyMapping.ToRow(model.Property{HostID: 1, PricePerNight: 10})
	if err != nil {
		t.Fatalf("ToRow() error = %v", err)
	}
	if row.LocationID.Valid || row.CancellationPolicyID.Valid {
		t.Errorf("zero references should be NULL: %+v", row)
	}
	if row.AmenityIDs != "[]" {
		t.Errorf("amenity_ids = %q, want []", row.AmenityIDs)
	}
	got, err := propertyMapping.FromRow(row)
	if err != nil {
		t.Fatalf("FromRow() error = %v", err)
	}
	if !got.Location.IsZero() || got.AmenityIDs == nil {
		t.Errorf("FromRow() = %+v", got)
	}
}

func TestPropertyMappingBadAmenities(t *testing.T) {
	if _, err := propertyMapping.FromRow(propertyRow{AmenityIDs: "not-json"}); err == nil {
		t.Error("FromRow() accepted a malformed amenity list")
	}
}

func TestBookingMappingPayment(t *testing.T) {
	in := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	b := model.Booking{GuestID: 1, PropertyID: 2, CheckInDate: in, CheckOutDate: in.AddDate(0, 0, 2), TotalPrice: 200}
	row, _ := bookingMapping.ToRow(b)
	if row.PaymentID.Valid {
		t.Error("booking without payment should store NULL payment_id")
	}
	b.PaymentID = 9
	row, _ = bookingMapping.ToRow(b)
	got, _ := bookingMapping.FromRow(row)
	if got.PaymentID != 9 || !got.CheckOutDate.Equal(b.CheckOutDate) {
		t.Errorf("FromRow() = %+v", got)
	}
}

func TestTimeColumnsKeepMicroseconds(t *testing.T) {
	at := time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.FixedZone("CEST", 2*3600))
	want := time.Date(2025, 6, 1, 8, 30, 0, 123456000, time.UTC)

	prow, _ := paymentMapping.ToRow(model.Payment{Amount: 10, Date: at})
	if !prow.Date.Equal(want) || prow.Date.Location() != time.UTC {
		t.Errorf("payment_date = %v, want %v", prow.Date, want)
	}
	rrow, _ := reviewMapping.ToRow(model.Review{Rating: 4, Date: at})
	if !rrow.Date.Equal(want) {
		t.Errorf("review_date = %v, want %v", rrow.Date, want)
	}
	brow, _ := bookingMapping.ToRow(model.Booking{CheckInDate: at, CheckOutDate: at.Add(48 * time.Hour)})
	if !brow.CheckInDate.Equal(want) {
		t.Errorf("check_in_date = %v, want %v", brow.CheckInDate, want)
	}

	stmts, _ := Schema("mysql")
	joined := strings.Join(stmts, "\n")
	if strings.Contains(joined, "DATETIME NOT NULL") || !strings.Contains(joined, "payment_date DATETIME(6)") {
		t.Error("mysql schema should declare DATETIME(6) columns")
	}
}

func TestSchema(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres"} {
		stmts, err := Schema(driver)
		if err != nil {
			t.Fatalf("Schema(%s) error = %v", driver, err)
		}
		joined := strings.Join(stmts, "\n")
		for _, table := range []string{"hosts", "guests", "locations", "amenities", "cancellation_policies", "properties", "payments", "bookings", "reviews"} {
			if !strings.Contains(joined, "CREATE TABLE IF NOT EXISTS "+table+" (") {
				t.Errorf("Schema(%s) misses table %s", driver, table)
			}
		}
	}
	if _, err := Schema("sqlite3"); err == nil {
		t.Error("Schema(sqlite3) should fail")
	}
}
