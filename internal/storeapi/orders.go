package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/dispatch"
	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/validate"
	"github.com/talkincode/souqlink/internal/webserver"
)

func registerOrderRoutes() {
	webserver.ApiPOST("/orders", postOrder)
}

// postOrder finalizes the session's cart into an order receipt. The receipt
// carries the wa.me link the client opens to hand the order to the store.
func postOrder(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	var form dispatch.OrderForm
	if err := c.Bind(&form); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse order form", err.Error())
	}

	eng := env.Carts.Get(sid)
	receipt, err := env.Dispatcher.Submit(c.Request().Context(), sid, eng, form, lang)
	if err != nil {
		if ferr, ok := err.(*validate.FieldError); ok {
			return failField(c, ferr, lang)
		}
		return fail(c, http.StatusInternalServerError, "DISPATCH_ERROR", "Failed to submit order", err.Error())
	}

	toast(sid, "notice.order_ok", notify.LevelSuccess)
	return ok(c, receipt)
}
