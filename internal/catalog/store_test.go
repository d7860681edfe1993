package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/souqlink/config"
)

const sampleDoc = `{
  "products": [
    {"id": "net-10", "name": "باقة 10 جيجا", "description": "انترنت شهري", "category": "internet", "price": 1500, "originalPrice": 2000, "discount": 25, "duration": "30 يوم", "features": ["سرعة عالية"], "isPopular": true},
    {"id": "game-1", "name": "شحن ببجي", "description": "شدات", "category": "games", "price": 500, "features": []},
    {"id": "net-50", "name": "باقة 50 جيجا", "description": "انترنت شهري", "category": "internet", "price": 5000, "features": ["سرعة عالية", "صلاحية شهر"]}
  ],
  "categories": {
    "internet": {"name": "باقات الإنترنت", "icon": "📶"},
    "games": {"name": "شحن الألعاب", "icon": "🎮"}
  },
  "paymentMethods": ["omflous", "cash"]
}`

func storeFor(t *testing.T, source string) *Store {
	t.Helper()
	return NewStore(config.CatalogConfig{Source: source, Timeout: 2, Retries: 1})
}

func TestLoadFromHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer ts.Close()

	s := storeFor(t, ts.URL)
	require.NoError(t, s.Load(context.Background()))
	assert.True(t, s.Ready())

	doc := s.Document()
	assert.Len(t, doc.Products, 3)
	assert.Len(t, doc.Categories, 2)
	assert.Equal(t, []string{"omflous", "cash"}, s.PaymentMethods())

	cat, ok := s.Category("internet")
	require.True(t, ok)
	assert.Equal(t, "internet", cat.Key, "category key filled from map key")
	assert.Equal(t, "📶", cat.Icon)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	s := storeFor(t, path)
	require.NoError(t, s.Load(context.Background()))

	p, ok := s.Product("game-1")
	require.True(t, ok)
	assert.Equal(t, int64(500), p.Price)

	_, ok = s.Product("missing")
	assert.False(t, ok)
}

func TestLoadFailureFallsBack(t *testing.T) {
	t.Run("http error keeps the empty document", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer ts.Close()

		s := storeFor(t, ts.URL)
		err := s.Load(context.Background())
		require.Error(t, err)
		assert.False(t, s.Ready())

		// downstream rendering must keep working on the fallback
		assert.Empty(t, s.GroupByCategory())
		assert.Empty(t, s.CategoryOrder())
		assert.NotNil(t, s.Document().Products)
		assert.NotNil(t, s.Document().Categories)
	})

	t.Run("missing file keeps the empty document", func(t *testing.T) {
		s := storeFor(t, filepath.Join(t.TempDir(), "nope.json"))
		require.Error(t, s.Load(context.Background()))
		assert.Empty(t, s.GroupByCategory())
	})

	t.Run("malformed document keeps the empty document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		s := storeFor(t, path)
		require.Error(t, s.Load(context.Background()))
		assert.Empty(t, s.GroupByCategory())
	})

	t.Run("refresh failure keeps the previous good document", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "products.json")
		require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

		s := storeFor(t, path)
		require.NoError(t, s.Load(context.Background()))
		require.NoError(t, os.Remove(path))

		require.Error(t, s.Refresh(context.Background()))
		assert.False(t, s.Ready())
		assert.Len(t, s.Document().Products, 3, "stale catalog beats no catalog")
	})
}

func TestGroupByCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o644))

	s := storeFor(t, path)
	require.NoError(t, s.Load(context.Background()))

	groups := s.GroupByCategory()
	require.Len(t, groups, 2)
	require.Len(t, groups["internet"], 2)
	assert.Equal(t, "net-10", groups["internet"][0].ID, "source order preserved within group")
	assert.Equal(t, "net-50", groups["internet"][1].ID)

	assert.Equal(t, []string{"internet", "games"}, s.CategoryOrder(), "first-seen category order")
}
