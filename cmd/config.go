package cmd

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"chorm/internal/datatype"
	"chorm/internal/dialect"
	"chorm/internal/schema"
)

type DBConfig struct {
	Name     string            `mapstructure:"name"`
	Driver   string            `mapstructure:"driver"`
	Host     string            `mapstructure:"host"`
	Port     int               `mapstructure:"port"`
	User     string            `mapstructure:"user"`
	Password string            `mapstructure:"password"`
	Database string            `mapstructure:"database"`
	Compress bool              `mapstructure:"compress"`
	Settings map[string]string `mapstructure:"settings"`
	Active   bool              `mapstructure:"active"`
}

func (c DBConfig) ConnConfig() dialect.ConnConfig {
	return dialect.ConnConfig{
		Host:     c.Host,
		Port:     c.Port,
		User:     c.User,
		Password: c.Password,
		Database: c.Database,
		Compress: c.Compress,
		Settings: c.Settings,
	}
}

// GetActiveDBConfig returns the currently active connection.
func GetActiveDBConfig() (*DBConfig, error) {
	var configs []DBConfig

	if err := viper.UnmarshalKey("connections", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse connections config: %w", err)
	}

	var activeConfig *DBConfig
	count := 0

	for i := range configs {
		if configs[i].Active {
			activeConfig = &configs[i]
			count++
		}
	}

	if count == 0 {
		return nil, fmt.Errorf("no active connection found in config (set active: true)")
	}
	if count > 1 {
		return nil, fmt.Errorf("multiple active connections found (only one can be active)")
	}

	return activeConfig, nil
}

type ColumnConfig struct {
	Name string `mapstructure:"name"`
	Type string `mapstructure:"type"`
	// Default is "now", "today", "uuid" or a literal value.
	Default string `mapstructure:"default"`
	Raw     string `mapstructure:"raw"`
}

type ModelConfig struct {
	Table      string         `mapstructure:"table"`
	Columns    []ColumnConfig `mapstructure:"columns"`
	Options    string         `mapstructure:"options"`
	AutoCreate bool           `mapstructure:"auto_create"`
	AutoSync   bool           `mapstructure:"auto_sync"`
}

// Definition converts the config entry into a table definition.
func (mc ModelConfig) Definition() (schema.Definition, error) {
	def := schema.Definition{
		Table:      mc.Table,
		Options:    mc.Options,
		AutoCreate: mc.AutoCreate,
		AutoSync:   mc.AutoSync,
	}
	for _, cc := range mc.Columns {
		typ, err := datatype.Parse(cc.Type)
		if err != nil {
			return schema.Definition{}, fmt.Errorf("model %s column %s: %w", mc.Table, cc.Name, err)
		}
		def.Columns = append(def.Columns, schema.Column{
			Name:    cc.Name,
			Type:    typ,
			Default: defaultProvider(cc.Default),
			RawType: cc.Raw,
		})
	}
	return def, nil
}

func defaultProvider(spec string) func() any {
	switch spec {
	case "":
		return nil
	case "now":
		return func() any { return time.Now() }
	case "today":
		return func() any { return time.Now().UTC().Truncate(24 * time.Hour) }
	case "uuid":
		return func() any { return uuid.New() }
	}
	return func() any { return spec }
}

// GetModelConfigs returns the configured models, filtered by table name when names is not empty.
func GetModelConfigs(names []string) ([]ModelConfig, error) {
	var models []ModelConfig
	if err := viper.UnmarshalKey("models", &models); err != nil {
		return nil, fmt.Errorf("failed to parse models config: %w", err)
	}
	if len(names) == 0 {
		return models, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = true
	}
	var out []ModelConfig
	for _, m := range models {
		if wanted[m.Table] {
			out = append(out, m)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no matching models found for inputs: %v", names)
	}
	return out, nil
}
