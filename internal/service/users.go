package service

import (
	"context"
	"strings"

	"github.com/iliyamo/rental-booking/internal/model"
)

// AddHost stores h and assigns its id.
func (s *Service) AddHost(ctx context.Context, h *model.Host) error {
	if h == nil {
		return newError("add host", ErrInvalid, nil)
	}
	if err := s.stores.Hosts.Create(ctx, h); err != nil {
		return storageError("add host", err)
	}
	return nil
}

// AddGuest stores g and assigns its id.
func (s *Service) AddGuest(ctx context.Context, g *model.Guest) error {
	if g == nil {
		return newError("add guest", ErrInvalid, nil)
	}
	if err := s.stores.Guests.Create(ctx, g); err != nil {
		return storageError("add guest", err)
	}
	return nil
}

func (s *Service) GetAllHosts(ctx context.Context) ([]model.Host, error) {
	return list(ctx, s.stores.Hosts, "get hosts")
}

func (s *Service) GetAllGuests(ctx context.Context) ([]model.Guest, error) {
	return list(ctx, s.stores.Guests, "get guests")
}

func (s *Service) GetHostByID(ctx context.Context, id int) (model.Host, error) {
	return readByID(ctx, s.stores.Hosts, "get host", id)
}

func (s *Service) GetGuestByID(ctx context.Context, id int) (model.Guest, error) {
	return readByID(ctx, s.stores.Guests, "get guest", id)
}

// GetHostByEmail finds the first host whose email matches, ignoring case
// and surrounding whitespace.  It backs the login identity lookup.
func (s *Service) GetHostByEmail(ctx context.Context, email string) (model.Host, error) {
	hosts, err := filter(ctx, s.stores.Hosts, "get host by email", func(h model.Host) bool {
		return sameEmail(h.Email, email)
	})
	if err != nil {
		return model.Host{}, err
	}
	if len(hosts) == 0 {
		return model.Host{}, newError("get host by email", ErrNotFound, nil)
	}
	return hosts[0], nil
}

// GetGuestByEmail is the guest counterpart of GetHostByEmail.
func (s *Service) GetGuestByEmail(ctx context.Context, email string) (model.Guest, error) {
	guests, err := filter(ctx, s.stores.Guests, "get guest by email", func(g model.Guest) bool {
		return sameEmail(g.Email, email)
	})
	if err != nil {
		return model.Guest{}, err
	}
	if len(guests) == 0 {
		return model.Guest{}, newError("get guest by email", ErrNotFound, nil)
	}
	return guests[0], nil
}

func sameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}

// FilterGuestsByBookingCount returns the guests holding at least minBookings
// bookings, in storage order.
func (s *Service) FilterGuestsByBookingCount(ctx context.Context, minBookings int) ([]model.Guest, error) {
	const op = "filter guests by booking count"
	bookings, err := s.stores.Bookings.GetAll(ctx)
	if err != nil {
		return nil, storageError(op, err)
	}
	counts := make(map[int]int)
	for _, b := range bookings {
		counts[b.GuestID]++
	}
	return filter(ctx, s.stores.Guests, op, func(g model.Guest) bool {
		return counts[g.ID] >= minBookings
	})
}
