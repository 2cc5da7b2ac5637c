package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/service"
)

// AdminHandler manages users, reference data and payment processing.
type AdminHandler struct {
	Svc *service.Service
}

func NewAdminHandler(svc *service.Service) *AdminHandler { return &AdminHandler{Svc: svc} }

type userReq struct {
	Name   string  `json:"name" validate:"required,min=2,max=100"`
	Email  string  `json:"email" validate:"required,email"`
	Phone  string  `json:"phone" validate:"omitempty,max=32"`
	Rating float64 `json:"rating" validate:"gte=0,lte=5"`
}

func (h *AdminHandler) CreateHost(c echo.Context) error {
	var req userReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	host := model.Host{Name: strings.TrimSpace(req.Name), Email: strings.TrimSpace(req.Email), Phone: req.Phone, HostRating: req.Rating}
	if err := h.Svc.AddHost(ctx, &host); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, host)
}

func (h *AdminHandler) ListHosts(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	hosts, err := h.Svc.GetAllHosts(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, hosts)
}

func (h *AdminHandler) GetHost(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	host, err := h.Svc.GetHostByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, host)
}

func (h *AdminHandler) CreateGuest(c echo.Context) error {
	var req userReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	guest := model.Guest{Name: strings.TrimSpace(req.Name), Email: strings.TrimSpace(req.Email), Phone: req.Phone, GuestRating: req.Rating}
	if err := h.Svc.AddGuest(ctx, &guest); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, guest)
}

func (h *AdminHandler) ListGuests(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	guests, err := h.Svc.GetAllGuests(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, guests)
}

func (h *AdminHandler) GetGuest(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	guest, err := h.Svc.GetGuestByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, guest)
}

// FilterGuests lists guests holding at least min_bookings bookings.
func (h *AdminHandler) FilterGuests(c echo.Context) error {
	minBookings, err := strconv.Atoi(c.QueryParam("min_bookings"))
	if err != nil || minBookings < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "min_bookings must be a non-negative integer"})
	}
	ctx, cancel := timeout(c)
	defer cancel()
	guests, err := h.Svc.FilterGuestsByBookingCount(ctx, minBookings)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, guests)
}

type amenityReq struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description" validate:"max=500"`
}

func (h *AdminHandler) CreateAmenity(c echo.Context) error {
	var req amenityReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	a := model.Amenity{Name: req.Name, Description: req.Description}
	if err := h.Svc.AddAmenity(ctx, &a); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *AdminHandler) ListAmenities(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	all, err := h.Svc.GetAllAmenities(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

func (h *AdminHandler) GetAmenity(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	a, err := h.Svc.GetAmenityByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

type locationReq struct {
	City    string `json:"city" validate:"required,max=100"`
	Country string `json:"country" validate:"required,max=100"`
}

func (h *AdminHandler) CreateLocation(c echo.Context) error {
	var req locationReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	l := model.Location{City: req.City, Country: req.Country}
	if err := h.Svc.AddLocation(ctx, &l); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

// ListLocations returns every location, or the single match when both
// city and country are given.
func (h *AdminHandler) ListLocations(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	city, country := c.QueryParam("city"), c.QueryParam("country")
	if city != "" && country != "" {
		l, found, err := h.Svc.GetLocationByCityAndCountry(ctx, city, country)
		if err != nil {
			return fail(c, err)
		}
		if !found {
			return c.JSON(http.StatusOK, []model.Location{})
		}
		return c.JSON(http.StatusOK, []model.Location{l})
	}
	all, err := h.Svc.GetAllLocations(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

func (h *AdminHandler) GetLocation(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	l, err := h.Svc.GetLocationByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

type policyReq struct {
	Description string `json:"description" validate:"required,max=500"`
}

func (h *AdminHandler) CreatePolicy(c echo.Context) error {
	var req policyReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p := model.CancellationPolicy{Description: req.Description}
	if err := h.Svc.AddCancellationPolicy(ctx, &p); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// ListPolicies honors an optional description filter.
func (h *AdminHandler) ListPolicies(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	if d := c.QueryParam("description"); d != "" {
		p, found, err := h.Svc.GetCancellationPolicyByDescription(ctx, d)
		if err != nil {
			return fail(c, err)
		}
		if !found {
			return c.JSON(http.StatusOK, []model.CancellationPolicy{})
		}
		return c.JSON(http.StatusOK, []model.CancellationPolicy{p})
	}
	all, err := h.Svc.GetAllCancellationPolicies(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, all)
}

func (h *AdminHandler) GetPolicy(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p, err := h.Svc.GetCancellationPolicyByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *AdminHandler) GetPayment(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p, err := h.Svc.GetPaymentByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// ProcessPayment marks a payment processed.  Repeating it is harmless.
func (h *AdminHandler) ProcessPayment(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p, err := h.Svc.ProcessPayment(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}
