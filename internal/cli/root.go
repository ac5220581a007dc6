package cli

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lacquerai/weighin/internal/style"
)

var (
	// Global flags
	cfgFile      string
	logLevel     string
	outputFormat string
	quiet        bool
	verbose      bool
)

var envKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weighin",
	Short: "weighin - estimate obesity level from lifestyle and body measurements",
	Long: `weighin estimates an obesity category from a short lifestyle survey and body measurements.

It scores a record with a fixed set of risk rules, serves a web form and JSON API with a
per-session history, and can profile or generate survey datasets in CSV form.

The estimate is informational and not a medical diagnosis.`,
	Version: getVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
	SilenceUsage: true,
}

// Execute runs the root command through fang. It is called once by main.
func Execute() error {
	return fang.Execute(context.Background(), rootCmd, fang.WithColorSchemeFunc(colorScheme))
}

func colorScheme(lipgloss.LightDarkFunc) fang.ColorScheme {
	return fang.ColorScheme{
		Base:           style.PrimaryTextColor,
		Title:          style.AccentColor,
		Description:    style.PrimaryTextColor,
		Codeblock:      style.CodeColor,
		Program:        style.AccentColor,
		DimmedArgument: style.MutedColor,
		Comment:        style.MutedColor,
		Flag:           style.InfoColor,
		FlagDefault:    style.MutedColor,
		Command:        style.SuccessColor,
		QuotedString:   style.WarningColor,
		Argument:       style.PrimaryTextColor,
		Help:           style.InfoColor,
		Dash:           style.MutedColor,
		ErrorHeader:    [2]color.Color{style.ErrorColor, style.ErrorBgColor},
		ErrorDetails:   style.ErrorColor,
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.weighin/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "disabled", "log level (debug, info, warn, error) (default: disabled)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "output", "text", "output format (text, json, yaml)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("log-level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig loads .env, then the first config.yaml found in --config,
// ~/.weighin, the working directory or ./.weighin, then WEIGHIN_* variables.
func initConfig() {
	_ = godotenv.Load()

	switch {
	case cfgFile != "":
		viper.SetConfigFile(cfgFile)
	default:
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(filepath.Join(home, ".weighin"))
		}
		viper.AddConfigPath(".")
		viper.AddConfigPath(".weighin")
	}

	// WEIGHIN_SERVE_PORT overrides serve.port
	viper.SetEnvPrefix("WEIGHIN")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil && !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// initLogging sets the global zerolog level from --log-level. Unknown or
// "disabled" levels turn logging off unless --verbose asks for info.
func initLogging() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	name := viper.GetString("log-level")
	if viper.GetBool("verbose") && (name == "" || name == "disabled") {
		name = "info"
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil || name == "" {
		level = zerolog.Disabled
	}
	zerolog.SetGlobalLevel(level)

	if !viper.GetBool("quiet") && viper.GetString("output") == "text" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// getVersion returns the version information
func getVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s, go: %s)", Version, Commit, Date, GoVersion)
}
