package storeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/i18n"
	"github.com/talkincode/souqlink/internal/view"
	"github.com/talkincode/souqlink/internal/webserver"
)

func registerMiscRoutes() {
	webserver.ApiGET("/state", getState)
	webserver.ApiGET("/inquiry", getInquiry)
	webserver.ApiGET("/products/:id/share", getProductShare)
	webserver.ApiGET("/lang", getLang)
	webserver.ApiPOST("/lang", postLang)
}

// getState returns everything the client needs to refresh its surface: the
// cart panel, the account widget and the pending notification, if any.
func getState(c echo.Context) error {
	sid, lang := webserver.Sid(c), webserver.Lang(c)

	var noticeView interface{}
	if n := env.Notices.Current(sid); n != nil {
		noticeView = map[string]interface{}{
			"message": i18n.T(lang, n.Key),
			"level":   n.Level,
		}
	}

	eng := env.Carts.Get(sid)
	return ok(c, map[string]interface{}{
		"cart":   view.BuildCart(eng.Items(), lang),
		"user":   view.BuildUser(env.Sessions.Current(sid)),
		"notice": noticeView,
		"lang":   lang,
	})
}

// getInquiry returns a wa.me link for a general question to the store.
func getInquiry(c echo.Context) error {
	lang := webserver.Lang(c)
	return ok(c, map[string]interface{}{
		"link": env.Dispatcher.Inquiry(c.QueryParam("text"), lang),
	})
}

// getProductShare returns the share text for a product, used by clients
// without a native share capability.
func getProductShare(c echo.Context) error {
	lang := webserver.Lang(c)

	p, found := env.Catalog.Product(c.Param("id"))
	if !found {
		return fail(c, http.StatusNotFound, "PRODUCT_NOT_FOUND", i18n.T(lang, "error.product_unknown"), nil)
	}
	return ok(c, map[string]interface{}{
		"message": env.Dispatcher.Share(p, lang),
		"link":    env.Dispatcher.ShareLink(p, lang),
	})
}

func getLang(c echo.Context) error {
	return ok(c, map[string]interface{}{"lang": webserver.Lang(c)})
}

// postLang sets the language when the payload names a supported one, and
// toggles between Arabic and English otherwise.
func postLang(c echo.Context) error {
	var payload struct {
		Lang string `json:"lang"`
	}
	_ = c.Bind(&payload)

	lang := webserver.Lang(c)
	if i18n.Supported(payload.Lang) {
		lang = payload.Lang
	} else {
		lang = i18n.Toggle(lang)
	}
	webserver.SetLang(c, lang)
	return ok(c, map[string]interface{}{"lang": lang})
}
