package config

import (
	"bytes"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "CROWDFUNDING_"

// Config stores global configuration
type Config struct {
	// Is development mode on
	IsDevelopment bool

	// Maximum time a component will be closing before stop is forced.
	StopTimeout time.Duration

	// Logging level
	LogLevel string

	Ledger    Ledger
	Database  Database
	Redis     Redis
	Gateway   Gateway
	Publisher Publisher
	Watcher   Watcher
	Client    Client
	Load      LoadGenerator
	Profiler  Profiler
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("IsDevelopment", "false")
	v.SetDefault("LogLevel", "DEBUG")
	v.SetDefault("StopTimeout", "30s")

	setLedgerDefaults(v)
	setDatabaseDefaults(v)
	setRedisDefaults(v)
	setGatewayDefaults(v)
	setPublisherDefaults(v)
	setWatcherDefaults(v)
	setClientDefaults(v)
	setLoadDefaults(v)
	setProfilerDefaults(v)
}

func Default() (config *Config) {
	config, err := Load("")
	if err != nil {
		panic(err)
	}
	return
}

// Visits every field and registers upper snake case ENV name for it
// Works with embedded structs
func BindEnv(v *viper.Viper, path []string, val reflect.Value) {
	if val.Kind() != reflect.Struct {
		// Base types and slices of base types
		key := strings.Join(path, ".")
		env := ENV_PREFIX + strcase.ToScreamingSnake(strings.Join(path, "_"))
		err := v.BindEnv(key, env)
		if err != nil {
			panic(err)
		}
		return
	}

	// Iterates over struct fields
	for i := 0; i < val.NumField(); i++ {
		newPath := make([]string, len(path))
		copy(newPath, path)
		newPath = append(newPath, val.Type().Field(i).Name)
		BindEnv(v, newPath, val.Field(i))
	}
}

func decoderConfig(c *mapstructure.DecoderConfig) {
	c.WeaklyTypedInput = true
	c.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// Load configuration from file and env
func Load(filename string) (config *Config, err error) {
	v := viper.New()
	v.SetConfigType("json")

	setDefaults(v)

	BindEnv(v, []string{}, reflect.ValueOf(Config{}))

	// Empty filename means we use default values
	if filename != "" {
		var content []byte
		/* #nosec */
		content, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}

		err = v.ReadConfig(bytes.NewBuffer(content))
		if err != nil {
			return nil, err
		}
	}

	config = new(Config)
	err = v.Unmarshal(config, decoderConfig)
	if err != nil {
		return nil, err
	}

	return
}
