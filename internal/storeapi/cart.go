package storeapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/cart"
	"github.com/talkincode/souqlink/internal/i18n"
	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/view"
	"github.com/talkincode/souqlink/internal/webserver"
)

type addItemPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Type      string `json:"type"`
}

type updateQuantityPayload struct {
	Quantity int `json:"quantity"`
}

func registerCartRoutes() {
	webserver.ApiPOST("/cart/items", addCartItem)
	webserver.ApiPUT("/cart/items/:id", updateCartItem)
	webserver.ApiDELETE("/cart/items/:id", removeCartItem)
}

// addCartItem puts a product in the session's cart. The payload either
// references a catalog product by id or carries name/price directly.
func addCartItem(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	var payload addItemPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse cart item", err.Error())
	}

	in := cart.AddInput{
		ProductID: payload.ProductID,
		Name:      payload.Name,
		Price:     payload.Price,
		Type:      payload.Type,
	}
	if payload.ProductID != "" {
		p, found := env.Catalog.Product(payload.ProductID)
		if !found {
			return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", i18n.T(lang, "error.product_unknown"), nil)
		}
		in.Name = p.Name
		in.Price = p.Price
		if cat, ok := env.Catalog.Category(p.Category); ok {
			in.Type = cat.Name
		}
	}

	eng := env.Carts.Get(sid)
	if err := eng.Add(in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Product needs a name and a price", err.Error())
	}

	toast(sid, "notice.cart_added", notify.LevelSuccess)
	return ok(c, view.BuildCart(eng.Items(), lang))
}

// updateCartItem sets a line's quantity. Zero or less removes the line; an
// unknown id leaves the cart untouched, which is still a successful answer.
func updateCartItem(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}
	var payload updateQuantityPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse quantity", err.Error())
	}

	eng := env.Carts.Get(sid)
	eng.UpdateQuantity(id, payload.Quantity)
	return ok(c, view.BuildCart(eng.Items(), lang))
}

// removeCartItem deletes a line. Removing an id that is not in the cart is a
// no-op, not an error.
func removeCartItem(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid cart item ID", nil)
	}

	eng := env.Carts.Get(sid)
	eng.Remove(id)

	toast(sid, "notice.cart_removed", notify.LevelSuccess)
	return ok(c, view.BuildCart(eng.Items(), lang))
}
