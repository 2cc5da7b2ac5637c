package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/queue"
	"github.com/iliyamo/rental-booking/internal/storage"
)

var epoch = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time { return epoch.AddDate(0, 0, n) }

// fakePublisher records events and optionally fails.  onPublish, when
// set, runs before the event is recorded.
type fakePublisher struct {
	mu        sync.Mutex
	events    []queue.Event
	err       error
	onPublish func(queue.Event)
}

func (f *fakePublisher) Publish(ctx context.Context, ev queue.Event) error {
	if f.onPublish != nil {
		f.onPublish(ev)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakePublisher) count(q string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, ev := range f.events {
		if ev.Queue() == q {
			n++
		}
	}
	return n
}

func newTestService(t *testing.T, stores *storage.Stores) (*Service, *fakePublisher) {
	t.Helper()
	if stores == nil {
		stores = storage.NewMemory()
	}
	pub := &fakePublisher{}
	svc := New(stores, WithPublisher(pub), WithClock(func() time.Time { return epoch }))
	return svc, pub
}

// seed creates a host, a guest and one property priced at price.
func seed(t *testing.T, svc *Service, price float64) (model.Host, model.Guest, model.Property) {
	t.Helper()
	ctx := context.Background()
	h := model.Host{Name: "Hana", Email: "hana@example.com"}
	if err := svc.AddHost(ctx, &h); err != nil {
		t.Fatalf("AddHost() error = %v", err)
	}
	g := model.Guest{Name: "Gus", Email: "gus@example.com"}
	if err := svc.AddGuest(ctx, &g); err != nil {
		t.Fatalf("AddGuest() error = %v", err)
	}
	p := model.Property{
		HostID:             h.ID,
		Address:            "1 Rue de Rivoli",
		PricePerNight:      price,
		Location:           model.Location{City: "Paris", Country: "France"},
		CancellationPolicy: model.CancellationPolicy{Description: "Flexible"},
	}
	if err := svc.AddProperty(ctx, &p); err != nil {
		t.Fatalf("AddProperty() error = %v", err)
	}
	return h, g, p
}

func TestAddPropertyDeduplicatesReferences(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, _, first := seed(t, svc, 100)

	second := model.Property{
		HostID:             first.HostID,
		PricePerNight:      80,
		Location:           model.Location{City: "Paris", Country: "France"},
		CancellationPolicy: model.CancellationPolicy{Description: "Flexible"},
	}
	if err := svc.AddProperty(ctx, &second); err != nil {
		t.Fatalf("AddProperty() error = %v", err)
	}

	locs, _ := svc.GetAllLocations(ctx)
	if len(locs) != 1 {
		t.Errorf("locations = %d, want 1", len(locs))
	}
	policies, _ := svc.GetAllCancellationPolicies(ctx)
	if len(policies) != 1 {
		t.Errorf("cancellation policies = %d, want 1", len(policies))
	}
	if second.Location.ID != first.Location.ID || second.CancellationPolicy.ID != first.CancellationPolicy.ID {
		t.Errorf("second property references %+v / %+v, want the existing ones", second.Location, second.CancellationPolicy)
	}

	third := model.Property{HostID: first.HostID, PricePerNight: 50, Location: model.Location{City: "Lyon", Country: "France"}}
	if err := svc.AddProperty(ctx, &third); err != nil {
		t.Fatalf("AddProperty() error = %v", err)
	}
	if third.Location.ID == first.Location.ID {
		t.Error("a new city should create a new location")
	}
	if third.CancellationPolicy.ID != 0 {
		t.Error("a property without policy should not create one")
	}
}

func TestBookPropertyPricingAndOverlap(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)

	b, err := svc.BookProperty(ctx, g, p, day(0), day(2))
	if err != nil {
		t.Fatalf("BookProperty() error = %v", err)
	}
	if b.TotalPrice != 200 {
		t.Errorf("TotalPrice = %v, want 200", b.TotalPrice)
	}
	pay, err := svc.GetPaymentByID(ctx, b.PaymentID)
	if err != nil {
		t.Fatalf("GetPaymentByID() error = %v", err)
	}
	if pay.Amount != 200 || pay.Processed || !pay.Date.Equal(epoch) {
		t.Errorf("payment = %+v, want unprocessed 200", pay)
	}

	_, err = svc.BookProperty(ctx, g, p, day(1), day(3))
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("overlapping BookProperty() error = %v, want ErrUnavailable", err)
	}

	if _, err := svc.BookProperty(ctx, g, p, day(2), day(4)); err != nil {
		t.Errorf("back-to-back BookProperty() error = %v", err)
	}

	bookings, _ := svc.GetBookingsForProperty(ctx, p.ID)
	if len(bookings) != 2 {
		t.Errorf("bookings = %d, want 2", len(bookings))
	}
	payments, _ := svc.stores.Payments.GetAll(ctx)
	if len(payments) != 2 {
		t.Errorf("payments = %d, want 2 (rejected booking must not create one)", len(payments))
	}
	if n := pub.count(queue.BookingCreatedQueue); n != 2 {
		t.Errorf("booking events = %d, want 2", n)
	}
}

func TestBookPropertyRejectsEmptyStay(t *testing.T) {
	svc, _ := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)
	_, err := svc.BookProperty(context.Background(), g, p, day(2), day(2))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("BookProperty() error = %v, want ErrInvalid", err)
	}
}

func TestCheckAvailabilityIsReadOnly(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)
	if _, err := svc.BookProperty(ctx, g, p, day(0), day(2)); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		ok, err := svc.CheckAvailability(ctx, p.ID, day(1), day(5))
		if err != nil || ok {
			t.Fatalf("CheckAvailability() = %v, %v; want false", ok, err)
		}
		ok, err = svc.CheckAvailability(ctx, p.ID, day(5), day(7))
		if err != nil || !ok {
			t.Fatalf("CheckAvailability() = %v, %v; want true", ok, err)
		}
	}
	bookings, _ := svc.GetBookingsForProperty(ctx, p.ID)
	if len(bookings) != 1 {
		t.Errorf("CheckAvailability() changed bookings: %d", len(bookings))
	}
}

func TestBookPropertyConcurrentRequests(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)

	const workers = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.BookProperty(ctx, g, p, day(0), day(3)); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, ErrUnavailable) {
				t.Errorf("BookProperty() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Errorf("successful bookings = %d, want 1", successes)
	}
	bookings, _ := svc.GetBookingsForProperty(ctx, p.ID)
	for i := range bookings {
		for j := i + 1; j < len(bookings); j++ {
			if bookings[i].Overlaps(bookings[j].CheckInDate, bookings[j].CheckOutDate) {
				t.Errorf("bookings %d and %d overlap", bookings[i].ID, bookings[j].ID)
			}
		}
	}
}

func TestProcessPaymentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)
	b, _ := svc.BookProperty(ctx, g, p, day(0), day(2))

	first, err := svc.ProcessPaymentForBooking(ctx, b)
	if err != nil || !first.Processed {
		t.Fatalf("ProcessPaymentForBooking() = %+v, %v", first, err)
	}
	second, err := svc.ProcessPayment(ctx, b.PaymentID)
	if err != nil || !second.Processed {
		t.Fatalf("ProcessPayment() = %+v, %v", second, err)
	}
	if n := pub.count(queue.PaymentProcessedQueue); n != 1 {
		t.Errorf("payment events = %d, want 1", n)
	}

	if _, err := svc.ProcessPayment(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("ProcessPayment(missing) error = %v, want ErrNotFound", err)
	}
	if _, err := svc.ProcessPaymentForBooking(ctx, model.Booking{ID: 5}); !errors.Is(err, ErrNotFound) {
		t.Errorf("ProcessPaymentForBooking(no payment) error = %v, want ErrNotFound", err)
	}
}

func TestPaymentsForHost(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	h, g, p := seed(t, svc, 100)

	other := model.Host{Name: "Other"}
	_ = svc.AddHost(ctx, &other)
	op := model.Property{HostID: other.ID, PricePerNight: 10}
	_ = svc.AddProperty(ctx, &op)

	b1, _ := svc.BookProperty(ctx, g, p, day(0), day(2))
	_, _ = svc.BookProperty(ctx, g, p, day(3), day(4))
	_, _ = svc.BookProperty(ctx, g, op, day(0), day(1))
	if _, err := svc.ProcessPaymentForBooking(ctx, b1); err != nil {
		t.Fatal(err)
	}

	processed, err := svc.GetPaymentsForHost(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetPaymentsForHost() error = %v", err)
	}
	if len(processed) != 1 || processed[0].ID != b1.PaymentID {
		t.Errorf("GetPaymentsForHost() = %+v, want only the processed payment", processed)
	}
	history, _ := svc.GetTransactionHistoryForHost(ctx, h.ID)
	if len(history) != 2 {
		t.Errorf("GetTransactionHistoryForHost() len = %d, want 2", len(history))
	}
}

func TestFilterGuestsByBookingCount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, busy, p := seed(t, svc, 50)
	light := model.Guest{Name: "Light"}
	_ = svc.AddGuest(ctx, &light)

	for i := 0; i < 3; i++ {
		if _, err := svc.BookProperty(ctx, busy, p, day(i*2), day(i*2+1)); err != nil {
			t.Fatal(err)
		}
	}
	_, _ = svc.BookProperty(ctx, light, p, day(10), day(11))

	got, err := svc.FilterGuestsByBookingCount(ctx, 3)
	if err != nil {
		t.Fatalf("FilterGuestsByBookingCount() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != busy.ID {
		t.Errorf("FilterGuestsByBookingCount(3) = %+v, want only %d", got, busy.ID)
	}
	got, _ = svc.FilterGuestsByBookingCount(ctx, 4)
	if len(got) != 0 {
		t.Errorf("FilterGuestsByBookingCount(4) = %+v, want none", got)
	}
}

func TestGetPropertiesByTotalReviews(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, g, unreviewed := seed(t, svc, 100)

	low := model.Property{HostID: unreviewed.HostID, PricePerNight: 60}
	high := model.Property{HostID: unreviewed.HostID, PricePerNight: 70}
	_ = svc.AddProperty(ctx, &low)
	_ = svc.AddProperty(ctx, &high)

	for _, r := range []struct {
		p      model.Property
		rating float64
	}{{low, 2}, {low, 3}, {high, 5}, {high, 4}} {
		if _, err := svc.AddReview(ctx, g, r.p, r.rating, "ok"); err != nil {
			t.Fatal(err)
		}
	}

	ranked, err := svc.GetPropertiesByTotalReviews(ctx)
	if err != nil {
		t.Fatalf("GetPropertiesByTotalReviews() error = %v", err)
	}
	if len(ranked) != 3 {
		t.Fatalf("len = %d, want 3", len(ranked))
	}
	if ranked[0].Property.ID != high.ID || ranked[0].Average != 4.5 {
		t.Errorf("first = %+v, want property %d with 4.5", ranked[0], high.ID)
	}
	if ranked[1].Property.ID != low.ID || ranked[1].Average != 2.5 {
		t.Errorf("second = %+v, want property %d with 2.5", ranked[1], low.ID)
	}
	last := ranked[2]
	if last.Property.ID != unreviewed.ID || last.Average != 0 || last.Reviews != 0 {
		t.Errorf("last = %+v, want unreviewed property with 0.0", last)
	}
}

func TestZeroRatedPropertyRanksBeforeUnreviewed(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, g, unreviewed := seed(t, svc, 100)
	zero := model.Property{HostID: unreviewed.HostID, PricePerNight: 10}
	_ = svc.AddProperty(ctx, &zero)
	_, _ = svc.AddReview(ctx, g, zero, 0, "awful")

	ranked, _ := svc.GetPropertiesByTotalReviews(ctx)
	if ranked[len(ranked)-1].Property.ID != unreviewed.ID {
		t.Errorf("unreviewed property should be last: %+v", ranked)
	}
}

func TestGetReviewsForProperty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)
	for _, r := range []float64{3, 5, 1, 5} {
		_, _ = svc.AddReview(ctx, g, p, r, fmt.Sprint(r))
	}

	tests := []struct {
		name       string
		sort, desc bool
		want       []float64
	}{
		{name: "storage order", want: []float64{3, 5, 1, 5}},
		{name: "ascending", sort: true, want: []float64{1, 3, 5, 5}},
		{name: "descending", sort: true, desc: true, want: []float64{5, 5, 3, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.GetReviewsForProperty(ctx, p.ID, tt.sort, tt.desc)
			if err != nil {
				t.Fatal(err)
			}
			for i, r := range got {
				if r.Rating != tt.want[i] {
					t.Fatalf("ratings = %v, want %v", got, tt.want)
				}
			}
		})
	}

	if _, err := svc.AddReview(ctx, g, p, 6, "too good"); !errors.Is(err, ErrInvalid) {
		t.Errorf("AddReview(6) error = %v, want ErrInvalid", err)
	}
}

func TestGetAvailablePropertiesByDateSortedByPrice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	h, g, pricey := seed(t, svc, 300)

	cheap := model.Property{HostID: h.ID, PricePerNight: 50}
	mid := model.Property{HostID: h.ID, PricePerNight: 120}
	booked := model.Property{HostID: h.ID, PricePerNight: 10}
	for _, p := range []*model.Property{&cheap, &mid, &booked} {
		_ = svc.AddProperty(ctx, p)
	}
	_, _ = svc.BookProperty(ctx, g, booked, day(0), day(3))

	got, err := svc.GetAvailablePropertiesByDateSortedByPrice(ctx, day(1))
	if err != nil {
		t.Fatal(err)
	}
	want := []int{cheap.ID, mid.ID, pricey.ID}
	if len(got) != len(want) {
		t.Fatalf("got %d properties, want %d", len(got), len(want))
	}
	for i, p := range got {
		if p.ID != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, p.ID, want[i])
		}
	}

	// A booking starting on the date does not strictly contain it.
	got, _ = svc.GetAvailablePropertiesByDateSortedByPrice(ctx, day(0))
	if len(got) != 4 {
		t.Errorf("on check-in day got %d properties, want 4", len(got))
	}
}

func TestDeleteProperty(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	h, g, p := seed(t, svc, 100)

	_, _ = svc.BookProperty(ctx, g, p, day(0), day(1))
	if err := svc.DeleteProperty(ctx, p.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("DeleteProperty(booked) error = %v, want ErrConflict", err)
	}

	free := model.Property{HostID: h.ID, PricePerNight: 20}
	_ = svc.AddProperty(ctx, &free)
	if err := svc.DeleteProperty(ctx, free.ID); err != nil {
		t.Fatalf("DeleteProperty() error = %v", err)
	}
	if _, err := svc.GetPropertyByID(ctx, free.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPropertyByID(deleted) error = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteProperty(ctx, free.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteProperty(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestBookPropertyRereadsTheProperty(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, nil)
	h, g, p := seed(t, svc, 100)

	// p is now a stale copy; the stored price wins
	stored := p
	stored.PricePerNight = 150
	if err := svc.stores.Properties.Update(ctx, stored); err != nil {
		t.Fatal(err)
	}
	b, err := svc.BookProperty(ctx, g, p, day(0), day(2))
	if err != nil {
		t.Fatalf("BookProperty() error = %v", err)
	}
	if b.TotalPrice != 300 {
		t.Errorf("TotalPrice = %v, want 300 from the stored price", b.TotalPrice)
	}

	gone := model.Property{HostID: h.ID, Address: "2 Rue de Rivoli", PricePerNight: 50}
	if err := svc.AddProperty(ctx, &gone); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteProperty(ctx, gone.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.BookProperty(ctx, g, gone, day(0), day(1)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("BookProperty(deleted) error = %v, want ErrNotFound", err)
	}

	bookings, _ := svc.stores.Bookings.GetAll(ctx)
	payments, _ := svc.stores.Payments.GetAll(ctx)
	if len(bookings) != 1 || len(payments) != 1 {
		t.Errorf("after booking a deleted property: %d bookings, %d payments, want 1 and 1", len(bookings), len(payments))
	}
	if n := pub.count(queue.BookingCreatedQueue); n != 1 {
		t.Errorf("booking events = %d, want 1", n)
	}
}

func TestEventsPublishedOutsideLocks(t *testing.T) {
	ctx := context.Background()
	svc, pub := newTestService(t, nil)
	_, g, p := seed(t, svc, 100)

	// tryLock reports whether the lock for key is free within a second.
	tryLock := func(locks *keyedMutex, key int) bool {
		done := make(chan struct{})
		go func() {
			unlock := locks.lock(key)
			unlock()
			close(done)
		}()
		select {
		case <-done:
			return true
		case <-time.After(time.Second):
			return false
		}
	}

	var booking model.Booking
	pub.onPublish = func(ev queue.Event) {
		switch ev.Queue() {
		case queue.BookingCreatedQueue:
			if !tryLock(svc.propertyLocks, p.ID) {
				t.Error("property lock held while publishing BookingCreated")
			}
		case queue.PaymentProcessedQueue:
			if !tryLock(svc.paymentLocks, booking.PaymentID) {
				t.Error("payment lock held while publishing PaymentProcessed")
			}
		}
	}

	var err error
	if booking, err = svc.BookProperty(ctx, g, p, day(0), day(1)); err != nil {
		t.Fatalf("BookProperty() error = %v", err)
	}
	if _, err := svc.ProcessPaymentForBooking(ctx, booking); err != nil {
		t.Fatalf("ProcessPaymentForBooking() error = %v", err)
	}
	if pub.count(queue.BookingCreatedQueue) != 1 || pub.count(queue.PaymentProcessedQueue) != 1 {
		t.Errorf("events = %d booking, %d payment, want 1 each", pub.count(queue.BookingCreatedQueue), pub.count(queue.PaymentProcessedQueue))
	}
}

func TestAmenities(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	_, _, p := seed(t, svc, 100)

	wifi := model.Amenity{Name: "wifi"}
	updated, err := svc.AddAmenityToProperty(ctx, p.ID, &wifi)
	if err != nil {
		t.Fatalf("AddAmenityToProperty() error = %v", err)
	}
	if !updated.HasAmenity(wifi.ID) {
		t.Errorf("property amenities = %v, want %d", updated.AmenityIDs, wifi.ID)
	}
	pool := model.Amenity{Name: "pool"}
	_, _ = svc.AddAmenityToProperty(ctx, p.ID, &pool)

	got, err := svc.GetAmenitiesForProperty(ctx, p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Name != "wifi" || got[1].Name != "pool" {
		t.Errorf("GetAmenitiesForProperty() = %+v", got)
	}
	if _, err := svc.AddAmenityToProperty(ctx, 999, &model.Amenity{Name: "x"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddAmenityToProperty(missing) error = %v, want ErrNotFound", err)
	}
}

func TestLookupsAndByIDAccessors(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t, nil)
	h, g, p := seed(t, svc, 100)

	if got, err := svc.GetHostByEmail(ctx, "  HANA@example.com "); err != nil || got.ID != h.ID {
		t.Errorf("GetHostByEmail() = %+v, %v", got, err)
	}
	if got, err := svc.GetGuestByEmail(ctx, "gus@example.com"); err != nil || got.ID != g.ID {
		t.Errorf("GetGuestByEmail() = %+v, %v", got, err)
	}
	if _, err := svc.GetGuestByEmail(ctx, "nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetGuestByEmail(unknown) error = %v", err)
	}
	if _, found, _ := svc.GetLocationByCityAndCountry(ctx, "Paris", "France"); !found {
		t.Error("GetLocationByCityAndCountry() did not find Paris")
	}
	if _, found, _ := svc.GetCancellationPolicyByDescription(ctx, "Strict"); found {
		t.Error("GetCancellationPolicyByDescription() found an unknown policy")
	}
	for name, err := range map[string]error{
		"host":    func() error { _, err := svc.GetHostByID(ctx, 99); return err }(),
		"guest":   func() error { _, err := svc.GetGuestByID(ctx, 99); return err }(),
		"booking": func() error { _, err := svc.GetBookingByID(ctx, 99); return err }(),
		"amenity": func() error { _, err := svc.GetAmenityByID(ctx, 99); return err }(),
	} {
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s by missing id error = %v, want ErrNotFound", name, err)
		}
	}

	byLoc, _ := svc.FilterPropertiesByLocation(ctx, model.Location{City: "Paris", Country: "France"})
	if len(byLoc) != 1 || byLoc[0].ID != p.ID {
		t.Errorf("FilterPropertiesByLocation() = %+v", byLoc)
	}
	none, err := svc.GetPropertiesByLocation(ctx, model.Location{City: "Rome", Country: "Italy"})
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("GetPropertiesByLocation(Rome) = %v, %v; want empty slice", none, err)
	}
	forHost, _ := svc.GetPropertiesForHost(ctx, h.ID)
	if len(forHost) != 1 {
		t.Errorf("GetPropertiesForHost() len = %d", len(forHost))
	}

	b, err := svc.BookProperty(ctx, g, p, day(0), day(2))
	if err != nil {
		t.Fatalf("BookProperty() error = %v", err)
	}
	if got, err := svc.GetPropertyForBooking(ctx, b); err != nil || got.ID != p.ID {
		t.Errorf("GetPropertyForBooking() = %+v, %v", got, err)
	}
	mine, _ := svc.GetBookingsForGuest(ctx, g.ID)
	if len(mine) != 1 || mine[0].ID != b.ID {
		t.Errorf("GetBookingsForGuest() = %+v", mine)
	}

	pay := model.Payment{Amount: 42, Date: epoch}
	if err := svc.CreatePayment(ctx, &pay); err != nil || pay.ID == 0 {
		t.Fatalf("CreatePayment() id = %d, error = %v", pay.ID, err)
	}
	if got, err := svc.GetPaymentByID(ctx, pay.ID); err != nil || got.Amount != 42 || got.Processed {
		t.Errorf("GetPaymentByID() = %+v, %v", got, err)
	}
	if err := svc.CreatePayment(ctx, nil); !errors.Is(err, ErrInvalid) {
		t.Errorf("CreatePayment(nil) error = %v, want ErrInvalid", err)
	}
}

func TestPublishFailureDoesNotFailBooking(t *testing.T) {
	svc, pub := newTestService(t, nil)
	pub.err = errors.New("broker down")
	_, g, p := seed(t, svc, 100)
	if _, err := svc.BookProperty(context.Background(), g, p, day(0), day(1)); err != nil {
		t.Errorf("BookProperty() error = %v, want success despite publish failure", err)
	}
}

func TestBookingOnFileBackend(t *testing.T) {
	ctx := context.Background()
	stores, err := storage.NewFile(t.TempDir(), nil)
	if err != nil {
		t.Fatal(err)
	}
	svc, _ := newTestService(t, stores)
	_, g, p := seed(t, svc, 100)

	b, err := svc.BookProperty(ctx, g, p, day(0), day(2))
	if err != nil {
		t.Fatalf("BookProperty() error = %v", err)
	}
	if _, err := svc.BookProperty(ctx, g, p, day(1), day(3)); !errors.Is(err, ErrUnavailable) {
		t.Errorf("overlap error = %v, want ErrUnavailable", err)
	}
	got, err := svc.GetBookingByID(ctx, b.ID)
	if err != nil || got.TotalPrice != 200 || !got.CheckInDate.Equal(day(0)) {
		t.Errorf("GetBookingByID() = %+v, %v", got, err)
	}
}
