package storeapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/talkincode/souqlink/config"
	"github.com/talkincode/souqlink/internal/cart"
	"github.com/talkincode/souqlink/internal/catalog"
	"github.com/talkincode/souqlink/internal/dispatch"
	"github.com/talkincode/souqlink/internal/notify"
	"github.com/talkincode/souqlink/internal/session"
	"github.com/talkincode/souqlink/internal/webserver"
)

const testDoc = `{
  "products": [
    {"id": "net-10", "name": "باقة 10 جيجا", "description": "انترنت", "category": "internet", "price": 1500, "features": []},
    {"id": "game-1", "name": "شحن ببجي", "description": "شدات", "category": "games", "price": 500, "features": []}
  ],
  "categories": {
    "internet": {"name": "باقات الإنترنت", "icon": "📶"},
    "games": {"name": "شحن الألعاب", "icon": "🎮"}
  },
  "paymentMethods": ["omflous", "cash"]
}`

// apiClient drives the API through the echo instance, carrying cookies like
// a browser so requests share one session.
type apiClient struct {
	t       *testing.T
	ws      *webserver.WebServer
	cookies []*http.Cookie
}

func newAPIClient(t *testing.T) *apiClient {
	t.Helper()

	dir := t.TempDir()
	docPath := filepath.Join(dir, "products.json")
	require.NoError(t, os.WriteFile(docPath, []byte(testDoc), 0o644))

	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = dir
	cfg.Catalog.Source = docPath
	cfg.Catalog.Timeout = 2
	cfg.Catalog.Retries = 1

	node, err := snowflake.NewNode(9)
	require.NoError(t, err)

	store := catalog.NewStore(cfg.Catalog)
	require.NoError(t, store.Load(context.Background()))

	db, err := bolt.Open(filepath.Join(dir, "test.db"), 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := EventBus.New()
	sessions, err := session.NewManager(db, bus)
	require.NoError(t, err)

	dispatcher, err := dispatch.New(cfg.Messaging, node, bus)
	require.NoError(t, err)
	t.Cleanup(dispatcher.Close)

	ws := webserver.Init(cfg, node)
	Register(&Env{
		Catalog:    store,
		Carts:      cart.NewRegistry(node, bus),
		Sessions:   sessions,
		Dispatcher: dispatcher,
		Notices:    notify.NewCenter(bus, notify.DefaultTTL),
		Bus:        bus,
	})

	return &apiClient{t: t, ws: ws}
}

func (c *apiClient) do(method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	c.t.Helper()

	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoHeaderContentType, "application/json")
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.ws.Echo().ServeHTTP(rec, req)

	if cookies := rec.Result().Cookies(); len(cookies) > 0 {
		c.cookies = cookies
	}

	var resp map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

const echoHeaderContentType = "Content-Type"

func data(resp map[string]interface{}) map[string]interface{} {
	d, _ := resp["data"].(map[string]interface{})
	return d
}

func TestCatalogEndpoint(t *testing.T) {
	c := newAPIClient(t)

	rec, resp := c.do(http.MethodGet, "/api/catalog", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	d := data(resp)
	assert.Equal(t, true, d["ready"])
	sections := d["sections"].([]interface{})
	require.Len(t, sections, 2)
	first := sections[0].(map[string]interface{})
	assert.Equal(t, "باقات الإنترنت", first["name"])
}

func TestPaymentMethodsEndpoint(t *testing.T) {
	c := newAPIClient(t)

	rec, resp := c.do(http.MethodGet, "/api/catalog/payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	opts := resp["data"].([]interface{})
	require.Len(t, opts, 2)
	assert.Equal(t, "تحويل عبر أم فلوس", opts[0].(map[string]interface{})["label"])
}

func TestCartFlow(t *testing.T) {
	c := newAPIClient(t)

	rec, resp := c.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "net-10"})
	require.Equal(t, http.StatusOK, rec.Code)
	cartView := data(resp)
	items := cartView["items"].([]interface{})
	require.Len(t, items, 1)
	line := items[0].(map[string]interface{})
	assert.Equal(t, "باقة 10 جيجا", line["name"])
	assert.Equal(t, "باقات الإنترنت", line["type"], "type label comes from the category")

	// same product again accumulates
	_, resp = c.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "net-10"})
	items = data(resp)["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(2), items[0].(map[string]interface{})["quantity"])

	// state reflects the cart and the toast
	_, resp = c.do(http.MethodGet, "/api/state", nil)
	st := data(resp)
	badge := st["cart"].(map[string]interface{})["badge"].(map[string]interface{})
	assert.Equal(t, float64(2), badge["count"])
	assert.Equal(t, false, badge["hidden"])
	notice := st["notice"].(map[string]interface{})
	assert.Equal(t, "تم إضافة المنتج للسلة", notice["message"])

	// update quantity then remove through the API
	id := items[0].(map[string]interface{})["id"].(string)
	_, resp = c.do(http.MethodPut, "/api/cart/items/"+id, map[string]int{"quantity": 5})
	items = data(resp)["items"].([]interface{})
	assert.Equal(t, float64(5), items[0].(map[string]interface{})["quantity"])

	_, resp = c.do(http.MethodDelete, "/api/cart/items/"+id, nil)
	assert.Equal(t, true, data(resp)["empty"])
}

func TestCartUnknownProduct(t *testing.T) {
	c := newAPIClient(t)

	rec, _ := c.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartUnknownLineIsNoop(t *testing.T) {
	c := newAPIClient(t)

	rec, resp := c.do(http.MethodDelete, "/api/cart/items/123456", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "removing an absent line is not an error")
	assert.Equal(t, true, data(resp)["empty"])
}

func TestSessionFlow(t *testing.T) {
	c := newAPIClient(t)

	// invalid phone is a field-level error
	rec, resp := c.do(http.MethodPost, "/api/session/login", map[string]string{"phone": "12345", "password": "x"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "phone", resp["field"])
	assert.Equal(t, "رقم الهاتف غير صحيح", resp["message"])

	// register, then the state carries the identity
	rec, resp = c.do(http.MethodPost, "/api/session/register", map[string]string{
		"phone": "777123456", "name": "Ali", "password": "secret1", "confirm_password": "secret1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(resp)["logged_in"])

	_, resp = c.do(http.MethodGet, "/api/state", nil)
	user := data(resp)["user"].(map[string]interface{})
	assert.Equal(t, "Ali", user["name"])

	// logout clears it
	_, _ = c.do(http.MethodPost, "/api/session/logout", nil)
	_, resp = c.do(http.MethodGet, "/api/state", nil)
	user = data(resp)["user"].(map[string]interface{})
	assert.Equal(t, false, user["logged_in"])
}

func TestOrderFlow(t *testing.T) {
	c := newAPIClient(t)

	// empty cart aborts
	rec, resp := c.do(http.MethodPost, "/api/orders", map[string]string{
		"customer_name": "Ali", "customer_phone": "777123456", "payment_method": "omflous",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "السلة فارغة", resp["message"])

	_, _ = c.do(http.MethodPost, "/api/cart/items", map[string]string{"product_id": "game-1"})

	rec, resp = c.do(http.MethodPost, "/api/orders", map[string]string{
		"customer_name": "Ali", "customer_phone": "777123456", "payment_method": "omflous",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	receipt := data(resp)
	assert.Equal(t, float64(500), receipt["total"])
	assert.Contains(t, receipt["link"], "https://wa.me/")
	assert.NotEmpty(t, receipt["order_no"])

	// cart is cleared after the submit
	_, resp = c.do(http.MethodGet, "/api/state", nil)
	assert.Equal(t, true, data(resp)["cart"].(map[string]interface{})["empty"])
}

func TestShareEndpoint(t *testing.T) {
	c := newAPIClient(t)

	rec, resp := c.do(http.MethodGet, "/api/products/game-1/share", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := data(resp)["message"].(string)
	assert.Equal(t, fmt.Sprintf("شاهد هذا المنتج الرائع: %s بسعر %d ريال فقط!", "شحن ببجي", 500), msg)
	assert.Contains(t, data(resp)["link"], "https://wa.me/")

	rec, _ = c.do(http.MethodGet, "/api/products/missing/share", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLangToggle(t *testing.T) {
	c := newAPIClient(t)

	_, resp := c.do(http.MethodGet, "/api/lang", nil)
	assert.Equal(t, "ar", data(resp)["lang"], "arabic is the default")

	_, resp = c.do(http.MethodPost, "/api/lang", nil)
	assert.Equal(t, "en", data(resp)["lang"], "bare toggle flips the language")

	_, resp = c.do(http.MethodPost, "/api/lang", map[string]string{"lang": "ar"})
	assert.Equal(t, "ar", data(resp)["lang"], "explicit language wins")
}
