package app

import (
	"os"
	"time"
	_ "time/tzdata"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/talkincode/souqlink/config"
)

// Application owns the process-wide resources: configuration, the bbolt
// store, the cron scheduler, the event bus and the snowflake id node.
type Application struct {
	appConfig *config.AppConfig
	boltDB    *bolt.DB
	sched     *cron.Cron
	bus       EventBus.Bus
	node      *snowflake.Node
}

// Ensure Application implements all provider interfaces
var (
	_ DBProvider     = (*Application)(nil)
	_ ConfigProvider = (*Application)(nil)
	_ SchedProvider  = (*Application)(nil)
	_ BusProvider    = (*Application)(nil)
	_ IDProvider     = (*Application)(nil)
	_ AppContext     = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig {
	return a.appConfig
}

func (a *Application) DB() *bolt.DB {
	return a.boltDB
}

func (a *Application) Bus() EventBus.Bus {
	return a.bus
}

func (a *Application) IDNode() *snowflake.Node {
	return a.node
}

// Scheduler returns the cron scheduler
func (a *Application) Scheduler() *cron.Cron {
	return a.sched
}

// OverrideDB replaces the application's database handle (used in tests).
func (a *Application) OverrideDB(db *bolt.DB) {
	a.boltDB = db
}

func (a *Application) Init() error {
	cfg := a.appConfig
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
		loc = time.UTC
	} else {
		time.Local = loc
	}

	a.initLogger()

	if err := cfg.InitDirs(); err != nil {
		return errors.Wrap(err, "app: create workdir")
	}

	a.boltDB, err = bolt.Open(cfg.DBFile(), 0o600, &bolt.Options{Timeout: 3 * time.Second})
	if err != nil {
		return errors.Wrapf(err, "app: open database %s", cfg.DBFile())
	}
	zap.S().Infof("Database open successful, file: %s", cfg.DBFile())

	a.node, err = snowflake.NewNode(1)
	if err != nil {
		return errors.Wrap(err, "app: create snowflake node")
	}

	a.bus = EventBus.New()
	a.sched = cron.New(cron.WithLocation(loc), cron.WithParser(cronParser))

	a.initBusLogging()
	return nil
}

// initLogger configures the global zap logger, with lumberjack rotation when
// file output is enabled.
func (a *Application) initLogger() {
	cfg := a.appConfig

	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}

		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller())
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller())
		if err != nil {
			panic(err)
		}
	}

	zap.ReplaceGlobals(logger)
}

// initBusLogging traces state-change events in debug mode.
func (a *Application) initBusLogging() {
	if !a.appConfig.System.Debug {
		return
	}
	_ = a.bus.Subscribe("cart:changed", func(sid string) {
		zap.L().Debug("event: cart changed", zap.String("sid", sid))
	})
	_ = a.bus.Subscribe("session:changed", func(sid string) {
		zap.L().Debug("event: session changed", zap.String("sid", sid))
	})
	_ = a.bus.Subscribe("order:submitted", func(sid, orderNo string) {
		zap.L().Debug("event: order submitted", zap.String("sid", sid), zap.String("order_no", orderNo))
	})
}

// InitDb truncates all persisted state, keeping the database file.
func (a *Application) InitDb() {
	err := a.boltDB.Update(func(tx *bolt.Tx) error {
		var names [][]byte
		_ = tx.ForEach(func(name []byte, _ *bolt.Bucket) error {
			names = append(names, append([]byte(nil), name...))
			return nil
		})
		for _, name := range names {
			if err := tx.DeleteBucket(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		zap.S().Error(err)
	}
}

// Release releases application resources
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.boltDB != nil {
		_ = a.boltDB.Close()
	}
	_ = zap.L().Sync()
}
