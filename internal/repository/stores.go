package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/storage"
)

// NewStores returns a storage bundle backed by db.  Closing the bundle
// closes db.
func NewStores(db *sqlx.DB, log logrus.FieldLogger) *storage.Stores {
	return storage.NewStores(storage.Stores{
		Hosts:      NewTable[model.Host](db, hostMapping, log),
		Guests:     NewTable[model.Guest](db, guestMapping, log),
		Locations:  NewTable[model.Location](db, locationMapping, log),
		Amenities:  NewTable[model.Amenity](db, amenityMapping, log),
		Policies:   NewTable[model.CancellationPolicy](db, policyMapping, log),
		Properties: NewTable[model.Property](db, propertyMapping, log),
		Bookings:   NewTable[model.Booking](db, bookingMapping, log),
		Payments:   NewTable[model.Payment](db, paymentMapping, log),
		Reviews:    NewTable[model.Review](db, reviewMapping, log),
	}, db.Close)
}
