package handlers

import (
	"cleaning-match-service/internal/api/dto"
	"cleaning-match-service/internal/ports"
	"cleaning-match-service/internal/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

const RankingDegradedHeader = "X-Ranking-Degraded"

type HomeHandler struct {
	Homes        ports.HomeRepository
	Registration *services.Registration
	Matcher      *services.Matcher
}

func (h *HomeHandler) Create(c echo.Context) error {
	var req dto.CreateHomeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	home, err := h.Registration.CreateHome(c.Request().Context(), req.ToDomain())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.HomeFrom(home))
}

func (h *HomeHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	home, err := h.Homes.GetHome(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.HomeFrom(home))
}

// NearbyProviders lists eligible providers for the home, nearest first.
// The body is always a JSON array; a degraded ranking is flagged in a header.
func (h *HomeHandler) NearbyProviders(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	res, err := h.Matcher.NearbyProviders(c.Request().Context(), id)
	if err != nil {
		return err
	}

	if res.Degraded {
		c.Response().Header().Set(RankingDegradedHeader, "true")
	}

	return c.JSON(http.StatusOK, dto.NearbyFrom(res.Providers))
}
