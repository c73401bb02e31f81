package providers

import (
	"fmt"
	"path/filepath"
	"presetd/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const AppName = "PresetDaemon"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("persistence.driver", "file")
	v.SetDefault("persistence.keyPrefix", "pqtr_")
	v.SetDefault("persistence.timeout", 2*time.Second)
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("seedCatalog", true)

	v.BindEnv("logger.level", "PRESETD_LOG_LEVEL")
	v.BindEnv("persistence.driver", "PRESETD_STORE_DRIVER")
	v.BindEnv("persistence.dir", "PRESETD_STORE_DIR")
	v.BindEnv("persistence.dsn", "PRESETD_STORE_DSN")
	v.BindEnv("backup.enabled", "PRESETD_BACKUP_ENABLED")
	v.BindEnv("backup.interval", "PRESETD_BACKUP_INTERVAL")
	v.BindEnv("selector.timezone", "PRESETD_TIMEZONE")
	v.BindEnv("cache.enabled", "PRESETD_CACHE_ENABLED")
	v.BindEnv("cache.size", "PRESETD_CACHE_SIZE")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
