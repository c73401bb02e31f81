package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type Persistence struct {
	Driver    string `yaml:"driver" validate:"required|in:file,sqlite,redis,memory"`
	Dir       string `yaml:"dir"`
	DSN       string `yaml:"dsn"`
	KeyPrefix string `yaml:"keyPrefix"`
	// Timeout bounds a single backend call (sqlite and redis only).
	Timeout time.Duration `yaml:"timeout"`
}

type BackupConfig struct {
	Enabled  bool          `yaml:"enabled"`
	FilePath string        `yaml:"filePath"`
	Interval time.Duration `yaml:"interval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type SelectorConfig struct {
	// Timezone is the IANA zone capture hours are read in. Empty means the
	// process local zone.
	Timezone string `yaml:"timezone"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server         `yaml:"webServer"`
	Persistence Persistence    `yaml:"persistence"`
	Backup      BackupConfig   `yaml:"backup"`
	Logger      LoggerConfig   `yaml:"logger"`
	Selector    SelectorConfig `yaml:"selector"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
	// SeedCatalog installs the built-in presets into an empty store at startup.
	SeedCatalog bool           `yaml:"seedCatalog"`
}
