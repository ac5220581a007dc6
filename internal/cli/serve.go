package cli

import (
	"fmt"

	"github.com/lacquerai/weighin/internal/execcontext"
	"github.com/lacquerai/weighin/internal/server"
	"github.com/lacquerai/weighin/internal/style"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web form and JSON API",
	Long: `Start an HTTP server for scoring records.

The server provides:
- an HTML form at / that shows the estimate, a BMI chart and recent estimates
- a JSON API under /api/v1 for predictions, categories and session history
- WebSocket streaming of new history entries
- a Prometheus metrics endpoint

Every option can also be set in the config file under "serve" or through
WEIGHIN_SERVE_* environment variables.

Examples:
  weighin serve                           # Serve on localhost:8080
  weighin serve --port 9000 --host 0.0.0.0
  weighin serve --history-size 10 --session-ttl 1h`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		runCtx := execcontext.RunContext{
			Context: cmd.Context(),
			StdOut:  cmd.OutOrStdout(),
			StdErr:  cmd.ErrOrStderr(),
		}

		config, err := serverConfig()
		if err != nil {
			return err
		}
		return startServer(runCtx, config)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	defaults := server.DefaultConfig()
	flags := serveCmd.Flags()

	// Server configuration
	flags.IntP("port", "p", defaults.Port, "server port")
	flags.String("host", defaults.Host, "server host")
	flags.Int("history-size", defaults.HistorySize, "number of estimates kept per session")
	flags.Duration("session-ttl", defaults.SessionTTL, "idle time after which a session is dropped")
	flags.Duration("sweep-interval", defaults.SweepInterval, "how often idle sessions are swept")
	flags.Duration("read-timeout", defaults.ReadTimeout, "HTTP read timeout")
	flags.Duration("write-timeout", defaults.WriteTimeout, "HTTP write timeout")
	flags.Duration("idle-timeout", defaults.IdleTimeout, "HTTP idle timeout")
	flags.Duration("shutdown-timeout", defaults.ShutdownTimeout, "time allowed for graceful shutdown")

	// Features
	flags.Bool("metrics", defaults.EnableMetrics, "enable Prometheus metrics endpoint")
	flags.Bool("cors", defaults.EnableCORS, "enable CORS headers")

	for _, name := range []string{
		"port", "host", "history-size", "session-ttl", "sweep-interval",
		"read-timeout", "write-timeout", "idle-timeout", "shutdown-timeout",
		"metrics", "cors",
	} {
		_ = viper.BindPFlag("serve."+name, flags.Lookup(name))
	}
}

// serverConfig resolves the serve settings from flags, config file and
// environment.
func serverConfig() (*server.Config, error) {
	config := server.DefaultConfig()
	if err := viper.UnmarshalKey("serve", config); err != nil {
		return nil, fmt.Errorf("invalid serve configuration: %w", err)
	}
	if config.Port < 0 || config.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", config.Port)
	}
	if config.HistorySize <= 0 {
		return nil, fmt.Errorf("history-size must be positive, got %d", config.HistorySize)
	}
	return config, nil
}

func startServer(runCtx execcontext.RunContext, config *server.Config) error {
	srv, err := server.New(config)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	if !viper.GetBool("quiet") {
		style.Success(runCtx, fmt.Sprintf("weighin server starting at http://%s", srv.GetAddr()))
		fmt.Fprintf(runCtx, "📝 Form: http://%s/\n", srv.GetAddr())
		fmt.Fprintf(runCtx, "🚀 API: http://%s/api/v1/predict\n", srv.GetAddr())
		if config.EnableMetrics {
			fmt.Fprintf(runCtx, "📊 Metrics: http://%s/metrics\n", srv.GetAddr())
		}
		if config.EnableCORS {
			style.Info(runCtx, "CORS enabled for all origins")
		}
	}

	if err := srv.StartWithGracefulShutdown(runCtx.Context); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
