package http

import (
	"net/http"

	"microloan-ledger/internal/usecase/admin"
	"microloan-ledger/internal/usecase/query"

	"github.com/labstack/echo/v4"
)

type AdminHandler struct {
	adm *admin.Usecase
	q   *query.Usecase
}

func NewAdminHandler(adm *admin.Usecase, q *query.Usecase) *AdminHandler {
	return &AdminHandler{adm: adm, q: q}
}

func (h *AdminHandler) Pause(c echo.Context) error {
	if err := h.adm.Pause(c.Request().Context(), callerID(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"paused": true})
}

func (h *AdminHandler) Unpause(c echo.Context) error {
	if err := h.adm.Unpause(c.Request().Context(), callerID(c)); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"paused": false})
}

type transferAdminReq struct {
	NewAdmin string `json:"new_admin" validate:"required,hex32"`
}

func (h *AdminHandler) TransferAdmin(c echo.Context) error {
	var req transferAdminReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.adm.TransferAdmin(c.Request().Context(), callerID(c), req.NewAdmin); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"admin": req.NewAdmin})
}

func (h *AdminHandler) GetStats(c echo.Context) error {
	dto, err := h.q.GetStats(c.Request().Context())
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
