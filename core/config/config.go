package config

import (
	"reflect"
	"strings"

	"asset-bundler/core/catalog"
	"asset-bundler/core/logger"
	"asset-bundler/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Storage holds configuration for artifact publishing (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Catalog holds configuration for asset catalog discovery.
	Catalog catalog.Config `mapstructure:"catalog"`
	// Bundler holds settings shared by the bundling commands.
	Bundler Bundler `mapstructure:"bundler"`
}

// Bundler configures defaults for the pack-assignment pipeline.
type Bundler struct {
	// Platforms is the comma-separated list of platforms to process when
	// no --platform flag is given.
	Platforms string `mapstructure:"platforms" default:"pc"`
	// LevelsPattern matches seed paths that contribute level hint files.
	LevelsPattern string `mapstructure:"levels_pattern" default:"*levels/*/*.*"`
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// Load .env if present; a missing file is fine (e.g. CI)
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. STORAGE_BUCKET -> storage.bucket)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
