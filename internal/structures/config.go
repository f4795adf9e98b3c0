package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval" validate:"required|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type StoreConfig struct {
	// MaxBytes caps the summed size of all values in the namespace.
	// Zero means unlimited; writes beyond the cap fail with a quota error.
	MaxBytes        int           `yaml:"maxBytes"`
	DefaultCacheTTL time.Duration `yaml:"defaultCacheTTL"`
	LegacyImport    bool          `yaml:"legacyImport"`
}

type BackendConfig struct {
	BaseURL string        `yaml:"baseUrl" validate:"required"`
	Timeout time.Duration `yaml:"timeout" validate:"required|min:1"`
}

type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
	TTL     int  `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Version     string
	Debug       bool
	Path        string
	Store       StoreConfig   `yaml:"store"`
	Backend     BackendConfig `yaml:"backend"`
	Events      EventsConfig  `yaml:"events"`
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
}
