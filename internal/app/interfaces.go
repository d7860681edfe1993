package app

import (
	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/robfig/cron/v3"
	bolt "go.etcd.io/bbolt"

	"github.com/talkincode/souqlink/config"
)

// DBProvider provides database access
type DBProvider interface {
	DB() *bolt.DB
}

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// SchedProvider provides task scheduling capability
type SchedProvider interface {
	Scheduler() *cron.Cron
}

// BusProvider provides the application event bus
type BusProvider interface {
	Bus() EventBus.Bus
}

// IDProvider provides the snowflake id node
type IDProvider interface {
	IDNode() *snowflake.Node
}

// AppContext combines all provider interfaces for full application context.
// Services should depend on specific providers or this combined interface.
type AppContext interface {
	DBProvider
	ConfigProvider
	SchedProvider
	BusProvider
	IDProvider

	// InitDb truncates all persisted state
	InitDb()
}
