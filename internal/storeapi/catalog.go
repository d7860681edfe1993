package storeapi

import (
	"github.com/labstack/echo/v4"

	"github.com/talkincode/souqlink/internal/view"
	"github.com/talkincode/souqlink/internal/webserver"
)

func registerCatalogRoutes() {
	webserver.ApiGET("/catalog", getCatalog)
	webserver.ApiGET("/catalog/payments", getPaymentMethods)
}

// getCatalog returns the grouped catalog sections. A catalog that failed to
// load renders as an empty section list with ready=false rather than an
// error; the client keeps working on stale or missing data.
func getCatalog(c echo.Context) error {
	lang := webserver.Lang(c)
	doc := env.Catalog.Document()
	sections := view.BuildCatalog(env.Catalog.CategoryOrder(), env.Catalog.GroupByCategory(), doc.Categories, lang)
	return ok(c, map[string]interface{}{
		"ready":    env.Catalog.Ready(),
		"sections": sections,
	})
}

func getPaymentMethods(c echo.Context) error {
	lang := webserver.Lang(c)
	return ok(c, view.BuildPayments(env.Catalog.PaymentMethods(), lang))
}
