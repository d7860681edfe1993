// Package storeapi implements the storefront HTTP API. Handlers follow the
// ok/fail envelope convention; validation failures answer with the offending
// field and a localized message.
package storeapi

import (
	"net/http"

	"github.com/asaskevich/EventBus"
	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/cart"
	"github.com/talkincode/souqlink/internal/catalog"
	"github.com/talkincode/souqlink/internal/dispatch"
	"github.com/talkincode/souqlink/internal/i18n"
	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/session"
	"github.com/talkincode/souqlink/internal/validate"
)

// Env holds the stores the handlers operate on.
type Env struct {
	Catalog    *catalog.Store
	Carts      *cart.Registry
	Sessions   *session.Manager
	Dispatcher *dispatch.Dispatcher
	Notices    *notify.Center
	Bus        EventBus.Bus
}

var env *Env

// Register wires the handler environment and registers all storefront routes.
func Register(e *Env) {
	env = e
	registerCatalogRoutes()
	registerCartRoutes()
	registerSessionRoutes()
	registerOrderRoutes()
	registerMiscRoutes()
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"code": 0,
		"data": data,
	})
}

func fail(c echo.Context, status int, code, message string, detail interface{}) error {
	return c.JSON(status, map[string]interface{}{
		"code":    1,
		"error":   code,
		"message": message,
		"detail":  detail,
	})
}

// failField maps a validation failure to a 400 with the field name and the
// localized message, mirroring the inline form errors of the web client.
func failField(c echo.Context, ferr *validate.FieldError, lang string) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":    1,
		"error":   "VALIDATION_ERROR",
		"field":   ferr.Field,
		"message": i18n.T(lang, ferr.Key),
	})
}

// toast raises a transient notification for the session.
func toast(sid, key string, level notify.Level) {
	if env.Bus != nil {
		env.Bus.Publish(notify.TopicNotice, sid, key, level)
	}
}
