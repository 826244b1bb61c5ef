package handler

import (
	"net/http"

	"webpay-checkout/internal/dto"
	"webpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type OrderHandler struct {
	txService service.TransactionService
}

func NewOrderHandler(txService service.TransactionService) *OrderHandler {
	return &OrderHandler{
		txService: txService,
	}
}

func (h *OrderHandler) GetByCode(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.txService.OrderByCode(ctx, c.Param("buyOrder"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.OrderStatusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.txService.UpdateOrderStatus(ctx, c.Param("buyOrder"), req.Status); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
