package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/rental-booking/internal/model"
	"github.com/iliyamo/rental-booking/internal/service"
)

// BrowseHandler serves the read-only property catalogue to any
// authenticated caller.
type BrowseHandler struct {
	Svc *service.Service
}

func NewBrowseHandler(svc *service.Service) *BrowseHandler { return &BrowseHandler{Svc: svc} }

func (h *BrowseHandler) ListProperties(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	props, err := h.Svc.GetAllProperties(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, props)
}

func (h *BrowseHandler) GetProperty(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	p, err := h.Svc.GetPropertyByID(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Search filters by exact city and country.
func (h *BrowseHandler) Search(c echo.Context) error {
	loc := model.Location{
		City:    strings.TrimSpace(c.QueryParam("city")),
		Country: strings.TrimSpace(c.QueryParam("country")),
	}
	if loc.City == "" || loc.Country == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "city and country are required"})
	}
	ctx, cancel := timeout(c)
	defer cancel()
	props, err := h.Svc.FilterPropertiesByLocation(ctx, loc)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, props)
}

// Available lists properties free on the given date, cheapest first.
func (h *BrowseHandler) Available(c echo.Context) error {
	date, err := parseDate(c.QueryParam("date"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date"})
	}
	ctx, cancel := timeout(c)
	defer cancel()
	props, err := h.Svc.GetAvailablePropertiesByDateSortedByPrice(ctx, date)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, props)
}

func (h *BrowseHandler) Ranking(c echo.Context) error {
	ctx, cancel := timeout(c)
	defer cancel()
	ranked, err := h.Svc.GetPropertiesByTotalReviews(ctx)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, ranked)
}

// Reviews returns reviews in insertion order unless sort=rating, in which
// case order=desc flips the default ascending order.
func (h *BrowseHandler) Reviews(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	byRating := c.QueryParam("sort") == "rating"
	desc := strings.EqualFold(c.QueryParam("order"), "desc")

	ctx, cancel := timeout(c)
	defer cancel()
	if _, err := h.Svc.GetPropertyByID(ctx, id); err != nil {
		return fail(c, err)
	}
	reviews, err := h.Svc.GetReviewsForProperty(ctx, id, byRating, desc)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *BrowseHandler) Amenities(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	ctx, cancel := timeout(c)
	defer cancel()
	amenities, err := h.Svc.GetAmenitiesForProperty(ctx, id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, amenities)
}

type availabilityResp struct {
	PropertyID int    `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Available  bool   `json:"available"`
}

// Availability never mutates anything, so asking twice gives the same
// answer.
func (h *BrowseHandler) Availability(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return badID(c)
	}
	in, err1 := parseDate(c.QueryParam("check_in"))
	out, err2 := parseDate(c.QueryParam("check_out"))
	if err1 != nil || err2 != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid check_in or check_out"})
	}
	ctx, cancel := timeout(c)
	defer cancel()
	if _, err := h.Svc.GetPropertyByID(ctx, id); err != nil {
		return fail(c, err)
	}
	free, err := h.Svc.CheckAvailability(ctx, id, in, out)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, availabilityResp{
		PropertyID: id,
		CheckIn:    c.QueryParam("check_in"),
		CheckOut:   c.QueryParam("check_out"),
		Available:  free,
	})
}
