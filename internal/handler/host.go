package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/middleware"
	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/service"
	"github.com/iliyamo/rental-booking/internal/utils"
)

// HostHandler lets a host manage their own listings and see the money
// they have earned.
type HostHandler struct {
	Svc *service.Service
}

func NewHostHandler(svc *service.Service) *HostHandler { return &HostHandler{Svc: svc} }

type createPropertyReq struct {
	Address            string  `json:"address" validate:"required,max=255"`
	PricePerNight      float64 `json:"price_per_night" validate:"gt=0"`
	Description        string  `json:"description" validate:"max=2000"`
	City               string  `json:"city" validate:"required_with=Country,max=100"`
	Country            string  `json:"country" validate:"required_with=City,max=100"`
	AmenityIDs         []int   `json:"amenity_ids" validate:"dive,gt=0"`
	CancellationPolicy string  `json:"cancellation_policy" validate:"max=500"`
}

// CreateProperty lists a new property owned by the caller.  Location and
// cancellation policy are given by value and reused when they exist.
func (h *HostHandler) CreateProperty(c echo.Context) error {
	hostID, _ := middleware.UserID(c)
	var req createPropertyReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p := model.Property{
		HostID:             hostID,
		Address:            req.Address,
		PricePerNight:      req.PricePerNight,
		Description:        req.Description,
		Location:           model.Location{City: req.City, Country: req.Country},
		AmenityIDs:         req.AmenityIDs,
		CancellationPolicy: model.CancellationPolicy{Description: req.CancellationPolicy},
	}
	if err := h.Svc.AddProperty(ctx, &p); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

func (h *HostHandler) ListOwn(c echo.Context) error {
	hostID, _ := middleware.UserID(c)
	ctx, cancel := timeout(c)
	defer cancel()
	props, err := h.Svc.GetPropertiesForHost(ctx, hostID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, props)
}

// DeleteProperty removes a property without bookings.  Hosts may only
// delete their own; the administrator may delete any.
func (h *HostHandler) DeleteProperty(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	if middleware.Role(c) != utils.RoleAdmin {
		if ok, err := h.requireOwner(c, id); !ok {
			return err
		}
	}
	if err := h.Svc.DeleteProperty(ctx, id); err != nil {
		return fail(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// requireOwner answers 404 for properties the caller does not own, so
// other hosts' ids are not disclosed.
func (h *HostHandler) requireOwner(c echo.Context, propertyID int) (bool, error) {
	ctx, cancel := timeout(c)
	defer cancel()
	hostID, _ := middleware.UserID(c)
	p, err := h.Svc.GetPropertyByID(ctx, propertyID)
	if err != nil {
		return false, fail(c, err)
	}
	if p.HostID != hostID {
		return false, c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	}
	return true, nil
}

func (h *HostHandler) AddAmenity(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	var req amenityReq
	if ok, err := bind(c, &req); !ok {
		return err
	}
	if ok, err := h.requireOwner(c, id); !ok {
		return err
	}
	ctx, cancel := timeout(c)
	defer cancel()
	a := model.Amenity{Name: req.Name, Description: req.Description}
	p, err := h.Svc.AddAmenityToProperty(ctx, id, &a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}

// Payments lists processed payments for the caller's properties.
func (h *HostHandler) Payments(c echo.Context) error {
	hostID, _ := middleware.UserID(c)
	ctx, cancel := timeout(c)
	defer cancel()
	pays, err := h.Svc.GetPaymentsForHost(ctx, hostID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, pays)
}

// Transactions lists every payment, processed or not.
func (h *HostHandler) Transactions(c echo.Context) error {
	hostID, _ := middleware.UserID(c)
	ctx, cancel := timeout(c)
	defer cancel()
	pays, err := h.Svc.GetTransactionHistoryForHost(ctx, hostID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, pays)
}
