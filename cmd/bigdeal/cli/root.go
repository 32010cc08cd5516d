package cli

import (
	"bytes"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bigdeal/bigdeal/internal/config"
)

var cfgFile string

// Execute creates the root command tree and runs it.
func Execute(version, commit, date string) error {
	rootCmd := newRootCmd(version, commit, date)
	return rootCmd.Execute()
}

func newRootCmd(version, commit, date string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bigdeal",
		Short: "Game result publishing service",
		Long: `Big Deal publishes numeric game results on a schedule and collects
contact inquiries, managed by a single admin account through a cookie-based
session API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./bigdeal.yaml)")

	cobra.OnInitialize(initConfig)

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd(version, commit, date))
	cmd.AddCommand(newAdminCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newOpenAPICmd())

	return cmd
}

func initConfig() {
	viper.SetConfigType("yaml")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("bigdeal")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.bigdeal")
	}

	viper.SetEnvPrefix("BIGDEAL")
	// Nested keys like auth.session_secret map to BIGDEAL_AUTH_SESSION_SECRET.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Discover the config file, then re-read it with ${VAR} references
	// expanded; viper itself performs no expansion. A missing file is fine.
	if err := viper.ReadInConfig(); err == nil {
		if data, err := config.ExpandFile(viper.ConfigFileUsed()); err == nil {
			viper.ReadConfig(bytes.NewReader(data))
		}
	}

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", "30s")
	viper.SetDefault("server.cors.origins", []string{"*"})
	viper.SetDefault("database.driver", "sqlite")
	viper.SetDefault("database.dsn", "bigdeal.db")
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}
