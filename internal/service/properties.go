package service

import (
	"context"

	"github.com/iliyamo/rental-booking/internal/model"
)

// AddProperty stores p after deduplicating its references: an existing
// location with the same city and country, or an existing cancellation
// policy with the same description, replaces the one carried by p;
// otherwise the reference is created first.  Amenity ids are stored as
// given.
func (s *Service) AddProperty(ctx context.Context, p *model.Property) error {
	const op = "add property"
	if p == nil {
		return newError(op, ErrInvalid, nil)
	}

	s.refMu.Lock()
	err := s.resolveReferences(ctx, p)
	s.refMu.Unlock()
	if err != nil {
		return err
	}

	if p.AmenityIDs == nil {
		p.AmenityIDs = []int{}
	}
	if err := s.stores.Properties.Create(ctx, p); err != nil {
		return storageError(op, err)
	}
	s.log.WithField("property_id", p.ID).WithField("host_id", p.HostID).Info("property added")
	return nil
}

func (s *Service) resolveReferences(ctx context.Context, p *model.Property) error {
	const op = "add property"

	if !p.CancellationPolicy.IsZero() {
		existing, found, err := s.GetCancellationPolicyByDescription(ctx, p.CancellationPolicy.Description)
		if err != nil {
			return err
		}
		if found {
			p.CancellationPolicy = existing
		} else if err := s.stores.Policies.Create(ctx, &p.CancellationPolicy); err != nil {
			return storageError(op, err)
		}
	}

	if !p.Location.IsZero() {
		existing, found, err := s.GetLocationByCityAndCountry(ctx, p.Location.City, p.Location.Country)
		if err != nil {
			return err
		}
		if found {
			p.Location = existing
		} else if err := s.stores.Locations.Create(ctx, &p.Location); err != nil {
			return storageError(op, err)
		}
	}
	return nil
}

func (s *Service) GetAllProperties(ctx context.Context) ([]model.Property, error) {
	return list(ctx, s.stores.Properties, "get properties")
}

func (s *Service) GetPropertyByID(ctx context.Context, id int) (model.Property, error) {
	return readByID(ctx, s.stores.Properties, "get property", id)
}

// GetPropertiesForHost lists the properties owned by hostID.
func (s *Service) GetPropertiesForHost(ctx context.Context, hostID int) ([]model.Property, error) {
	return filter(ctx, s.stores.Properties, "get properties for host", func(p model.Property) bool {
		return p.HostID == hostID
	})
}

// GetPropertiesByLocation lists the properties whose location has the
// same city and country as loc.
func (s *Service) GetPropertiesByLocation(ctx context.Context, loc model.Location) ([]model.Property, error) {
	return filter(ctx, s.stores.Properties, "get properties by location", func(p model.Property) bool {
		return p.Location.Equal(loc)
	})
}

// FilterPropertiesByLocation behaves exactly like GetPropertiesByLocation.
func (s *Service) FilterPropertiesByLocation(ctx context.Context, loc model.Location) ([]model.Property, error) {
	return s.GetPropertiesByLocation(ctx, loc)
}

// GetPropertyForBooking resolves the property a booking refers to.
func (s *Service) GetPropertyForBooking(ctx context.Context, b model.Booking) (model.Property, error) {
	return readByID(ctx, s.stores.Properties, "get property for booking", b.PropertyID)
}

// DeleteProperty removes a property that has no bookings.  A property
// still referenced by a booking is kept and ErrConflict is returned.
func (s *Service) DeleteProperty(ctx context.Context, id int) error {
	const op = "delete property"

	unlock := s.propertyLocks.lock(id)
	defer unlock()

	if _, err := readByID(ctx, s.stores.Properties, op, id); err != nil {
		return err
	}
	bookings, err := s.GetBookingsForProperty(ctx, id)
	if err != nil {
		return err
	}
	if len(bookings) > 0 {
		return newError(op, ErrConflict, nil)
	}
	if err := s.stores.Properties.Delete(ctx, id); err != nil {
		return storageError(op, err)
	}
	s.log.WithField("property_id", id).Info("property deleted")
	return nil
}

// AddAmenityToProperty creates amenity and appends its id to the
// property's amenity list.  It returns the updated property.
func (s *Service) AddAmenityToProperty(ctx context.Context, propertyID int, amenity *model.Amenity) (model.Property, error) {
	const op = "add amenity to property"
	if amenity == nil {
		return model.Property{}, newError(op, ErrInvalid, nil)
	}

	unlock := s.propertyLocks.lock(propertyID)
	defer unlock()

	p, err := readByID(ctx, s.stores.Properties, op, propertyID)
	if err != nil {
		return model.Property{}, err
	}
	if err := s.stores.Amenities.Create(ctx, amenity); err != nil {
		return model.Property{}, storageError(op, err)
	}
	p.AmenityIDs = append(p.AmenityIDs, amenity.ID)
	if err := s.stores.Properties.Update(ctx, p); err != nil {
		return model.Property{}, storageError(op, err)
	}
	return p, nil
}

// GetAmenitiesForProperty resolves the amenity ids of a property in
// order.  Ids that no longer resolve are skipped.
func (s *Service) GetAmenitiesForProperty(ctx context.Context, propertyID int) ([]model.Amenity, error) {
	const op = "get amenities for property"
	p, err := readByID(ctx, s.stores.Properties, op, propertyID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Amenity, 0, len(p.AmenityIDs))
	for _, id := range p.AmenityIDs {
		a, found, err := s.stores.Amenities.Read(ctx, id)
		if err != nil {
			return nil, storageError(op, err)
		}
		if !found {
			s.log.WithField("property_id", propertyID).WithField("amenity_id", id).Warn("dangling amenity id")
			continue
		}
		out = append(out, a)
	}
	return out, nil
}
