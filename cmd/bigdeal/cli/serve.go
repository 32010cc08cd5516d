package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bigdeal/bigdeal/internal/server"
	"github.com/bigdeal/bigdeal/internal/service"
	"github.com/bigdeal/bigdeal/internal/store"
)

const banner = `
 ___ ___ ___   ___  ___   _   _
| _ )_ _/ __| |   \| __| /_\ | |
| _ \| | (_ | | |) | _| / _ \| |__
|___/___\___| |___/|___/_/ \_\____|
`

func newServeCmd() *cobra.Command {
	var (
		port int
		host string
		noUI bool
		dev  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP server that publishes game results and handles admin sessions.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(host, port, noUI, dev)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 8080, "HTTP listen port")
	cmd.Flags().StringVar(&host, "host", "0.0.0.0", "HTTP listen host")
	cmd.Flags().BoolVar(&noUI, "no-ui", false, "Disable the public results page")
	cmd.Flags().BoolVar(&dev, "dev", false, "Enable development mode (verbose logging, generated session secret)")

	viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))

	return cmd
}

func runServe(host string, port int, noUI, dev bool) error {
	fmt.Print(banner)
	fmt.Println()

	// Set up logger
	logLevel := parseLogLevel(viper.GetString("logging.level"))
	if dev {
		logLevel = slog.LevelDebug
	}
	var handler slog.Handler
	if viper.GetString("logging.format") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	}
	logger := slog.New(handler)

	// 1. Open the database
	st, err := openStore()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	logger.Info("database opened", "driver", viper.GetString("database.driver"))

	// 2. Initialize session signing.
	secret, generated, err := resolveSessionSecret(dev)
	if err != nil {
		st.Close()
		return err
	}
	if generated {
		logger.Warn("no session secret configured, generated a throwaway dev secret; sessions will not survive restarts")
	}
	sessions := service.NewSessionTokens(secret, service.SessionTTL)
	authSvc := service.NewAuthService(st, sessions)

	// 3. Build and start HTTP server
	shutdownTimeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		shutdownTimeout = 30 * time.Second
	}
	srvCfg := server.Config{
		Host:            host,
		Port:            port,
		ShutdownTimeout: shutdownTimeout,
		CORSOrigins:     viper.GetStringSlice("server.cors.origins"),
		SecureCookies:   viper.GetBool("server.secure_cookies"),
		EnableUI:        !noUI,
	}

	srv := server.New(srvCfg, st, authSvc, logger)

	fmt.Printf("→ Listening on http://%s:%d\n", host, port)
	if !noUI {
		fmt.Printf("→ Results:  http://%s:%d/\n", host, port)
	}
	fmt.Printf("→ OpenAPI:  http://%s:%d/openapi.json\n", host, port)
	fmt.Printf("→ Health:   http://%s:%d/healthz\n", host, port)
	fmt.Println()

	return srv.ListenAndServe()
}

// resolveSessionSecret returns the session signing secret. A server without
// a secret mints tokens nobody can trust, so outside dev mode a missing
// secret is a startup error rather than a silent fallback to a known value.
// An unexpanded ${VAR} reference counts as missing. In dev mode a throwaway
// secret is generated instead; generated reports that case.
func resolveSessionSecret(dev bool) (secret string, generated bool, err error) {
	secret = viper.GetString("auth.session_secret")
	if strings.Contains(secret, "${") {
		secret = ""
	}
	if secret != "" {
		return secret, false, nil
	}
	if !dev {
		return "", false, fmt.Errorf("auth.session_secret is not set; configure it or set BIGDEAL_AUTH_SESSION_SECRET (use --dev for a throwaway secret)")
	}
	return service.GenerateDevSecret(), true, nil
}

// openStore opens the configured database backend.
func openStore() (*store.Store, error) {
	return store.Open(viper.GetString("database.driver"), viper.GetString("database.dsn"))
}

func parseLogLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
