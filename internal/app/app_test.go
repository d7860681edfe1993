package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"

	"github.com/talkincode/souqlink/config"
)

func newTestApp(t *testing.T) *Application {
	t.Helper()
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Logger.FileEnable = false

	a := NewApplication(cfg)
	require.NoError(t, a.Init())
	t.Cleanup(a.Release)
	return a
}

func TestApplicationInit(t *testing.T) {
	a := newTestApp(t)

	assert.NotNil(t, a.DB())
	assert.NotNil(t, a.Bus())
	assert.NotNil(t, a.IDNode())
	assert.NotNil(t, a.Scheduler())
	assert.NotEqual(t, a.IDNode().Generate(), a.IDNode().Generate())
}

func TestInitDbTruncates(t *testing.T) {
	a := newTestApp(t)

	err := a.DB().Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("identities"))
		if err != nil {
			return err
		}
		return b.Put([]byte("sid"), []byte("{}"))
	})
	require.NoError(t, err)

	a.InitDb()

	err = a.DB().View(func(tx *bolt.Tx) error {
		assert.Nil(t, tx.Bucket([]byte("identities")))
		return nil
	})
	require.NoError(t, err)
}

type countingRefresher struct{ ch chan struct{} }

func (r *countingRefresher) Refresh(ctx context.Context) error {
	select {
	case r.ch <- struct{}{}:
	default:
	}
	return nil
}

func TestBackgroundJobsRefreshCatalog(t *testing.T) {
	cfg := config.DefaultAppConfig()
	cfg.System.Workdir = t.TempDir()
	cfg.Catalog.RefreshSpec = "* * * * * *" // every second

	a := NewApplication(cfg)
	require.NoError(t, a.Init())
	t.Cleanup(a.Release)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &countingRefresher{ch: make(chan struct{}, 1)}
	a.StartBackgroundJobs(ctx, r)

	select {
	case <-r.ch:
	case <-time.After(3 * time.Second):
		t.Fatal("catalog refresh never fired")
	}
}
