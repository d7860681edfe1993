package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

type SysConfig struct {
	Appid    string `yaml:"appid" json:"appid"`
	Location string `yaml:"location" json:"location"`
	Workdir  string `yaml:"workdir" json:"workdir"`
	Debug    bool   `yaml:"debug" json:"debug"`
}

type WebConfig struct {
	Host   string `yaml:"host" json:"host"`
	Port   int    `yaml:"port" json:"port"`
	Secret string `yaml:"secret" json:"secret"`
}

type CatalogConfig struct {
	// Source is an http(s) URL or a local file path to the catalog document.
	Source      string `yaml:"source" json:"source"`
	Timeout     int    `yaml:"timeout" json:"timeout"`           // seconds per fetch attempt
	Retries     int    `yaml:"retries" json:"retries"`           // attempts per load
	RefreshSpec string `yaml:"refresh_spec" json:"refresh_spec"` // cron spec for periodic reload
}

type SessionConfig struct {
	CookieName string `yaml:"cookie_name" json:"cookie_name"`
	MaxAge     int    `yaml:"max_age" json:"max_age"` // seconds
}

type MessagingConfig struct {
	// StoreNumber is the WhatsApp number orders and inquiries are addressed to,
	// in international format without the plus sign.
	StoreNumber string `yaml:"store_number" json:"store_number"`
	// WebhookURL, when set, receives a copy of every submitted order.
	WebhookURL     string `yaml:"webhook_url" json:"webhook_url"`
	WebhookTimeout int    `yaml:"webhook_timeout" json:"webhook_timeout"` // seconds
	Workers        int    `yaml:"workers" json:"workers"`
}

type LogConfig struct {
	Mode       string `yaml:"mode" json:"mode"`
	FileEnable bool   `yaml:"file_enable" json:"file_enable"`
	Filename   string `yaml:"filename" json:"filename"`
}

type AppConfig struct {
	System    SysConfig       `yaml:"system" json:"system"`
	Web       WebConfig       `yaml:"web" json:"web"`
	Catalog   CatalogConfig   `yaml:"catalog" json:"catalog"`
	Session   SessionConfig   `yaml:"session" json:"session"`
	Messaging MessagingConfig `yaml:"messaging" json:"messaging"`
	Logger    LogConfig       `yaml:"logger" json:"logger"`
}

func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		System: SysConfig{
			Appid:    "souqlink",
			Location: "Asia/Aden",
			Workdir:  "/var/souqlink",
			Debug:    true,
		},
		Web: WebConfig{
			Host:   "0.0.0.0",
			Port:   1816,
			Secret: "souqlink-secret",
		},
		Catalog: CatalogConfig{
			Source:      "products.json",
			Timeout:     10,
			Retries:     3,
			RefreshSpec: "@every 15m",
		},
		Session: SessionConfig{
			CookieName: "souqlink_session",
			MaxAge:     86400 * 30,
		},
		Messaging: MessagingConfig{
			StoreNumber:    "967774235220",
			WebhookTimeout: 10,
			Workers:        8,
		},
		Logger: LogConfig{
			Mode:       "development",
			FileEnable: false,
			Filename:   "/var/souqlink/souqlink.log",
		},
	}
}

// LoadConfig reads the YAML file at cfile over the defaults and then applies
// environment overrides. A missing file is not an error; the defaults apply.
func LoadConfig(cfile string) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if cfile != "" {
		data, err := os.ReadFile(cfile)
		if err == nil {
			if err = yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}
	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *AppConfig) applyEnvOverrides() {
	setEnvString(&c.System.Workdir, "SOUQLINK_WORKDIR")
	setEnvString(&c.Web.Host, "SOUQLINK_WEB_HOST")
	setEnvInt(&c.Web.Port, "SOUQLINK_WEB_PORT")
	setEnvString(&c.Web.Secret, "SOUQLINK_WEB_SECRET")
	setEnvString(&c.Catalog.Source, "SOUQLINK_CATALOG_SOURCE")
	setEnvInt(&c.Catalog.Timeout, "SOUQLINK_CATALOG_TIMEOUT")
	setEnvString(&c.Messaging.StoreNumber, "SOUQLINK_STORE_NUMBER")
	setEnvString(&c.Messaging.WebhookURL, "SOUQLINK_ORDER_WEBHOOK")
	setEnvString(&c.Logger.Mode, "SOUQLINK_LOGGER_MODE")
	if v := os.Getenv("SOUQLINK_DEBUG"); v != "" {
		c.System.Debug = cast.ToBool(v)
	}
}

func setEnvString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setEnvInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n := cast.ToInt(v); n > 0 {
			*dst = n
		}
	}
}

// InitDirs ensures the working directory layout exists.
func (c *AppConfig) InitDirs() error {
	return os.MkdirAll(filepath.Join(c.System.Workdir, "data"), 0o755)
}

// DBFile is the bbolt database path under the working directory.
func (c *AppConfig) DBFile() string {
	return filepath.Join(c.System.Workdir, "data", "souqlink.db")
}
