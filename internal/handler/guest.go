package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/service"
)

// GuestHandler covers the guest side: booking, paying and reviewing.
type GuestHandler struct {
	Svc *service.Service
}

func NewGuestHandler(svc *service.Service) *GuestHandler { return &GuestHandler{Svc: svc} }

type bookReq struct {
	PropertyID int    `json:"property_id" validate:"required,gt=0"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
}

// Book reserves a property for the caller.  The stay must be at least one
// night and must not overlap an existing booking.
func (h *GuestHandler) Book(c echo.Context) error {
	var req bookReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	in, err1 := parseDate(req.CheckIn)
	out, err2 := parseDate(req.CheckOut)
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in or check_out"})
	}
	if !in.Before(out) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "check_out must be after check_in"})
	}

	ctx, cancel := timeout(c)
	defer cancel()
	guest, ok, err := h.caller(c)
	if !ok {
		return err
	}
	property, err := h.Svc.GetPropertyByID(ctx, req.PropertyID)
	if err != nil {
		return fail(c, err)
	}
	b, err := h.Svc.BookProperty(ctx, guest, property, in, out)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// caller loads the guest behind the token.  A token for a deleted guest
// is treated as unauthenticated.
func (h *GuestHandler) caller(c echo.Context) (model.Guest, bool, error) {
	ctx, cancel := timeout(c)
	defer cancel()
	id, _ := middleware.UserID(c)
	g, err := h.Svc.GetGuestByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return model.Guest{}, false, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unknown guest"})
		}
		return model.Guest{}, false, fail(c, err)
	}
	return g, true, nil
}

func (h *GuestHandler) ListOwn(c echo.Context) error {
	guestID, _ := middleware.UserID(c)
	ctx, cancel := timeout(c)
	defer cancel()
	bookings, err := h.Svc.GetBookingsForGuest(ctx, guestID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// ownBooking loads the booking named by :id and checks it belongs to the
// caller.  Someone else's booking looks the same as a missing one.
func (h *GuestHandler) ownBooking(c echo.Context) (model.Booking, bool, error) {
	id, ok := paramID(c, "id")
	if !ok {
		return model.Booking{}, false, badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	guestID, _ := middleware.UserID(c)
	b, err := h.Svc.GetBookingByID(ctx, id)
	if err != nil {
		return model.Booking{}, false, fail(c, err)
	}
	if b.GuestID != guestID {
		return model.Booking{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return b, true, nil
}

func (h *GuestHandler) GetOwn(c echo.Context) error {
	b, ok, err := h.ownBooking(c)
	if !ok {
		return err
	}
	return c.JSON(http.StatusOK, b)
}

// Pay processes the payment attached to one of the caller's bookings.
func (h *GuestHandler) Pay(c echo.Context) error {
	b, ok, err := h.ownBooking(c)
	if !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p, err := h.Svc.ProcessPaymentForBooking(ctx, b)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type reviewReq struct {
	Rating  *float64 `json:"rating" validate:"required,gte=0,lte=5"`
	Comment string   `json:"comment" validate:"max=2000"`
}

func (h *GuestHandler) Review(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	var req reviewReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	guest, ok, err := h.caller(c)
	if !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	property, err := h.Svc.GetPropertyByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	r, err := h.Svc.AddReview(ctx, guest, property, *req.Rating, req.Comment)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}
