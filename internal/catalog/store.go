// Package catalog loads and serves the product catalog. The catalog is a
// static document fetched from an HTTP source or read from a local file,
// decoded once and swapped in atomically; readers never observe a partially
// applied document.
package catalog

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/filter"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/talkincode/souqlink/config"
	"github.com/talkincode/souqlink/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store holds the current catalog document.
type Store struct {
	cfg   config.CatalogConfig
	doc   atomic.Value // *domain.CatalogDocument
	ready atomic.Bool
	sf    singleflight.Group
}

// NewStore creates a store pre-seeded with an empty document so that lookups
// are safe before the first load completes.
func NewStore(cfg config.CatalogConfig) *Store {
	s := &Store{cfg: cfg}
	s.doc.Store(domain.EmptyCatalog())
	return s
}

// Load fetches, decodes and installs the catalog document. On failure the
// store keeps serving whatever document is installed (the empty one on first
// load) and stays not-ready; the periodic refresh keeps retrying. Load never
// lets a fetch failure escape to the caller's render path.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.fetch(ctx)
	if err != nil {
		s.ready.Store(false)
		zap.L().Error("catalog: load failed, serving fallback", zap.String("source", s.cfg.Source), zap.Error(err))
		return err
	}

	var doc domain.CatalogDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		s.ready.Store(false)
		zap.L().Error("catalog: document decode failed, serving fallback", zap.Error(err))
		return errors.Wrap(err, "catalog: decode document")
	}

	normalize(&doc)
	s.doc.Store(&doc)
	s.ready.Store(true)
	zap.L().Info("catalog: document loaded",
		zap.Int("products", len(doc.Products)),
		zap.Int("categories", len(doc.Categories)),
		zap.Int("payment_methods", len(doc.PaymentMethods)))
	return nil
}

// Refresh reloads the catalog, coalescing concurrent callers into one fetch.
func (s *Store) Refresh(ctx context.Context) error {
	_, err, _ := s.sf.Do("refresh", func() (interface{}, error) {
		return nil, s.Load(ctx)
	})
	return err
}

func (s *Store) fetch(ctx context.Context) ([]byte, error) {
	src := s.cfg.Source
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return s.fetchHTTP(ctx, src)
	}
	data, err := os.ReadFile(src)
	return data, errors.Wrapf(err, "catalog: read %s", src)
}

func (s *Store) fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	timeout := time.Duration(s.cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	attempts := s.cfg.Retries
	if attempts <= 0 {
		attempts = 3
	}

	var (
		body []byte
		code int
	)
	err := gout.GET(src).
		WithContext(ctx).
		SetTimeout(timeout).
		Code(&code).
		BindBody(&body).
		F().Retry().Attempt(attempts).
		WaitTime(500 * time.Millisecond).
		MaxWaitTime(3 * time.Second).
		Func(func(c *gout.Context) error {
			if c.Error != nil || c.Code != 200 {
				return filter.ErrRetry
			}
			return nil
		}).Do()
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: fetch %s", src)
	}
	if code != 200 {
		return nil, errors.Errorf("catalog: fetch %s: unexpected status %d", src, code)
	}
	return body, nil
}

// normalize guarantees the document invariants downstream code relies on:
// no nil slices or maps, and each category knowing its own key.
func normalize(doc *domain.CatalogDocument) {
	if doc.Products == nil {
		doc.Products = []domain.Product{}
	}
	if doc.Categories == nil {
		doc.Categories = map[string]domain.Category{}
	}
	if doc.PaymentMethods == nil {
		doc.PaymentMethods = []string{}
	}
	for key, cat := range doc.Categories {
		if cat.Key == "" {
			cat.Key = key
			doc.Categories[key] = cat
		}
	}
	for i := range doc.Products {
		if doc.Products[i].Features == nil {
			doc.Products[i].Features = []string{}
		}
	}
}

// Document returns the currently installed catalog document.
func (s *Store) Document() *domain.CatalogDocument {
	return s.doc.Load().(*domain.CatalogDocument)
}

// Ready reports whether the last load succeeded.
func (s *Store) Ready() bool {
	return s.ready.Load()
}

// GroupByCategory partitions products by category key, preserving source
// order within each group.
func (s *Store) GroupByCategory() map[string][]domain.Product {
	doc := s.Document()
	groups := make(map[string][]domain.Product)
	for _, p := range doc.Products {
		groups[p.Category] = append(groups[p.Category], p)
	}
	return groups
}

// CategoryOrder returns category keys in the order they are first seen in
// the product list, which is the display order of catalog sections.
func (s *Store) CategoryOrder() []string {
	doc := s.Document()
	seen := make(map[string]bool)
	var order []string
	for _, p := range doc.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			order = append(order, p.Category)
		}
	}
	return order
}

// Product looks up a product by id.
func (s *Store) Product(id string) (domain.Product, bool) {
	for _, p := range s.Document().Products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// Category looks up category metadata by key.
func (s *Store) Category(key string) (domain.Category, bool) {
	cat, ok := s.Document().Categories[key]
	return cat, ok
}

// PaymentMethods returns the configured payment method keys.
func (s *Store) PaymentMethods() []string {
	return s.Document().PaymentMethods
}
