package providers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"cvdd/internal/structures"
)

const appVersion = "1.2.0"

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")

	viper.BindEnv("logger.level", "CVDD_LOG_LEVEL")
	viper.BindEnv("backend.baseUrl", "CVDD_BACKEND_URL")
	viper.BindEnv("backend.timeout", "CVDD_BACKEND_TIMEOUT")
	viper.BindEnv("persistence.saveInterval", "CVDD_SAVE_INTERVAL")
	viper.BindEnv("cache.enabled", "CVDD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "CVDD_CACHE_SIZE")
	viper.BindEnv("events.enabled", "CVDD_EVENTS_ENABLED")
	viper.BindEnv("events.brokers", "CVDD_EVENTS_BROKERS")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "CVDCompanionDaemon"
	conf.Version = appVersion
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
