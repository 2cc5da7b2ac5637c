package service

import (
	"context"

	"github.com/iliyamo/rental-booking/internal/model"
)

func (s *Service) AddAmenity(ctx context.Context, a *model.Amenity) error {
	if a == nil {
		return newError("add amenity", ErrInvalid, nil)
	}
	if err := s.stores.Amenities.Create(ctx, a); err != nil {
		return storageError("add amenity", err)
	}
	return nil
}

func (s *Service) GetAmenityByID(ctx context.Context, id int) (model.Amenity, error) {
	return readByID(ctx, s.stores.Amenities, "get amenity", id)
}

func (s *Service) GetAllAmenities(ctx context.Context) ([]model.Amenity, error) {
	return list(ctx, s.stores.Amenities, "get amenities")
}

// AddLocation stores l as given; unlike AddProperty it does not look for
// an equal location first.
func (s *Service) AddLocation(ctx context.Context, l *model.Location) error {
	if l == nil {
		return newError("add location", ErrInvalid, nil)
	}
	if err := s.stores.Locations.Create(ctx, l); err != nil {
		return storageError("add location", err)
	}
	return nil
}

func (s *Service) GetLocationByID(ctx context.Context, id int) (model.Location, error) {
	return readByID(ctx, s.stores.Locations, "get location", id)
}

func (s *Service) GetAllLocations(ctx context.Context) ([]model.Location, error) {
	return list(ctx, s.stores.Locations, "get locations")
}

// GetLocationByCityAndCountry returns the first stored location with the
// given city and country.  found is false when there is none.
func (s *Service) GetLocationByCityAndCountry(ctx context.Context, city, country string) (model.Location, bool, error) {
	want := model.Location{City: city, Country: country}
	matches, err := filter(ctx, s.stores.Locations, "get location by city and country", want.Equal)
	if err != nil || len(matches) == 0 {
		return model.Location{}, false, err
	}
	return matches[0], true, nil
}

// AddCancellationPolicy stores c as given.
func (s *Service) AddCancellationPolicy(ctx context.Context, c *model.CancellationPolicy) error {
	if c == nil {
		return newError("add cancellation policy", ErrInvalid, nil)
	}
	if err := s.stores.Policies.Create(ctx, c); err != nil {
		return storageError("add cancellation policy", err)
	}
	return nil
}

func (s *Service) GetCancellationPolicyByID(ctx context.Context, id int) (model.CancellationPolicy, error) {
	return readByID(ctx, s.stores.Policies, "get cancellation policy", id)
}

func (s *Service) GetAllCancellationPolicies(ctx context.Context) ([]model.CancellationPolicy, error) {
	return list(ctx, s.stores.Policies, "get cancellation policies")
}

// GetCancellationPolicyByDescription returns the first stored policy
// with the given description.  found is false when there is none.
func (s *Service) GetCancellationPolicyByDescription(ctx context.Context, description string) (model.CancellationPolicy, bool, error) {
	want := model.CancellationPolicy{Description: description}
	matches, err := filter(ctx, s.stores.Policies, "get cancellation policy by description", want.Equal)
	if err != nil || len(matches) == 0 {
		return model.CancellationPolicy{}, false, err
	}
	return matches[0], true, nil
}
