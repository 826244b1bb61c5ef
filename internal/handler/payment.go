package handler

import (
	"net/http"

	"webpay-checkout/internal/dto"
	"webpay-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type PaymentHandler struct {
	txService service.TransactionService
}

func NewPaymentHandler(txService service.TransactionService) *PaymentHandler {
	return &PaymentHandler{
		txService: txService,
	}
}

func (h *PaymentHandler) CreateCheckout(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	result, err := h.txService.CreateCheckout(ctx, req.Items, req.Customer)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// Commit handles the gateway's return callback. The gateway delivers the
// token as token_ws on the success path or TBK_TOKEN when the buyer aborts
// at the payment form, via GET query or POST form depending on the flow.
func (h *PaymentHandler) Commit(c echo.Context) error {
	ctx := c.Request().Context()

	token := callbackToken(c)

	result, err := h.txService.Commit(ctx, token)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

func callbackToken(c echo.Context) string {
	for _, name := range []string{"token_ws", "TBK_TOKEN"} {
		if v := c.QueryParam(name); v != "" {
			return v
		}
		if v := c.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}

func (h *PaymentHandler) Status(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.txService.Status(ctx, c.Param("token"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}
