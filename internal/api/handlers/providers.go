package handlers

import (
	"cleaning-match-service/internal/api/dto"
	"cleaning-match-service/internal/ports"
	"cleaning-match-service/internal/services"
	"net/http"

	"github.com/labstack/echo/v4"
)

type ProviderHandler struct {
	Providers    ports.ProviderRepository
	Registration *services.Registration
}

func (h *ProviderHandler) Create(c echo.Context) error {
	var req dto.CreateProviderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.Registration.CreateProvider(c.Request().Context(), req.ToDomain())
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ProviderDetailFrom(p))
}

func (h *ProviderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	p, err := h.Providers.GetProvider(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ProviderDetailFrom(p))
}
