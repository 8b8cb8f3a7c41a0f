package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"chorm/internal/client"
	"chorm/internal/orm"
)

var (
	cfgFile string
	dsn     string
	driver  string
	Client  *client.Client
	Session *orm.Session
)

var RootCmd = &cobra.Command{
	Use:   "chorm",
	Short: "Declarative tables and typed queries for ClickHouse",
	Long: `chorm keeps ClickHouse tables in line with the models declared in
chorm.yaml and runs find / insert / delete against them without hand-written SQL.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		var err error

		// Flag > Config
		if connStr := viper.GetString("dsn"); connStr != "" {
			Client, err = client.OpenDSN(ctx, viper.GetString("driver"), connStr)
		} else {
			var config *DBConfig
			config, err = GetActiveDBConfig()
			if err != nil {
				return err
			}
			log.Printf("Connecting to %s (%s)\n", config.Name, config.Driver)
			Client, err = client.Open(ctx, config.Driver, config.ConnConfig())
		}
		if err != nil {
			return err
		}

		level := slog.LevelInfo
		if viper.GetBool("debug") {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		Session, err = orm.New(orm.Options{
			Executor: Client,
			Database: viper.GetString("database.name"),
			Engine:   viper.GetString("database.engine"),
			Debug:    viper.GetBool("debug"),
			Logger:   logger,
		})
		return err
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if Client != nil {
			return Client.Close()
		}
		return nil
	},
}

func Execute() {
	if err := RootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Define flags
	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./chorm.yaml)")
	RootCmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Data Source Name, overrides the active connection")
	RootCmd.PersistentFlags().StringVar(&driver, "driver", "clickhouse", "driver for --dsn: clickhouse, mysql or postgres")
	RootCmd.PersistentFlags().String("database", "", "target database name")
	RootCmd.PersistentFlags().Bool("debug", false, "log every generated statement")

	viper.BindPFlag("dsn", RootCmd.PersistentFlags().Lookup("dsn"))
	viper.BindPFlag("driver", RootCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.name", RootCmd.PersistentFlags().Lookup("database"))
	viper.BindPFlag("debug", RootCmd.PersistentFlags().Lookup("debug"))

	viper.SetDefault("database.name", "default")
	viper.SetDefault("database.engine", "Atomic")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// 1. Executable Directory (Priority 1)
		ex, err := os.Executable()
		if err == nil {
			viper.AddConfigPath(filepath.Dir(ex))
		}

		// 2. Current Directory (Priority 2)
		viper.AddConfigPath(".")

		viper.SetConfigName("chorm")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("chorm")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Println("Using config file:", viper.ConfigFileUsed())
	}
}

// registerModels registers the configured models on Session. A model that
// fails to synchronize is reported and does not stop the others.
func registerModels(ctx context.Context, names []string) ([]*orm.Model, error) {
	configs, err := GetModelConfigs(names)
	if err != nil {
		return nil, err
	}

	var (
		models []*orm.Model
		errs   []error
	)
	for _, mc := range configs {
		def, err := mc.Definition()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		m, err := Session.Model(ctx, def)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		models = append(models, m)
	}
	return models, errors.Join(errs...)
}

// modelFor registers the single configured model for table.
func modelFor(ctx context.Context, table string) (*orm.Model, error) {
	if table == "" {
		return nil, fmt.Errorf("--table is required")
	}
	models, err := registerModels(ctx, []string{table})
	if err != nil {
		return nil, err
	}
	return models[0], nil
}
