package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/movio/movio-cli/catalog"
	"github.com/movio/movio-cli/config"
	"github.com/movio/movio-cli/movio"
	"github.com/movio/movio-cli/profile"
	"github.com/movio/movio-cli/session"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  zerolog.Logger
	store   *session.FileStore
	client  *movio.Client

	catalogState *catalog.State
	profileState *profile.State
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "movio-cli",
	Short: "A command-line client for the movio movie catalog",
	Long: `movio-cli is a command-line client for the movio movie catalog service.
It lets you browse the catalog, maintain your list of favorite movies, and
manage your user profile. A login session is kept between invocations.`,
	PersistentPreRunE: initializeApp,
	SilenceUsage:      true,
}

// SetVersion sets the version information for the CLI
func SetVersion(version, buildTime string) {
	rootCmd.Version = fmt.Sprintf("%s (built %s)", version, buildTime)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

// initializeApp initializes the configuration, the session store and the clients
func initializeApp(cmd *cobra.Command, args []string) error {
	// Load configuration
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger = setupLogger(cfg.Logging)

	// Open the credential store
	store, err = session.NewFileStore(cfg.Session.Path)
	if err != nil {
		return fmt.Errorf("failed to open session store: %w", err)
	}

	// Create the movio client
	client, err = movio.NewClient(cfg.API.URL, store, logger)
	if err != nil {
		return fmt.Errorf("failed to create movio client: %w", err)
	}

	notifier := &stdoutNotifier{}
	catalogState = catalog.NewState(client, notifier, logger)
	profileState = profile.NewState(client, store, notifier, &welcomeNavigator{}, logger)

	// Warn up front when the stored token has already expired
	if current, ok := session.Current(store); ok && current.Expired(time.Now()) {
		logger.Warn().Str("user", current.Username).Msg("Stored session token has expired, please login again")
	}

	return nil
}

// setupLogger configures the zerolog logger
func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	// Set log level
	level := zerolog.InfoLevel
	switch strings.ToLower(cfg.Level) {
	case "trace":
		level = zerolog.TraceLevel
	case "debug":
		level = zerolog.DebugLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	if cfg.Format == "json" {
		return zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Console format; color only when writing to a terminal
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !cfg.Color || !isatty.IsTerminal(os.Stderr.Fd()),
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// surface converts a core failure to the single generic user-facing message.
// The classified detail has already been logged by the client.
func surface(err error) error {
	if err == nil {
		return nil
	}
	return errors.New(movio.UserMessage(err))
}

// stdoutNotifier prints transient success messages, the CLI analog of a
// snackbar
type stdoutNotifier struct{}

func (n *stdoutNotifier) Notify(message string) {
	fmt.Printf("✓ %s\n", message)
}

// welcomeNavigator is the CLI analog of routing back to the welcome view
type welcomeNavigator struct{}

func (n *welcomeNavigator) NavigateToWelcome() {
	fmt.Println("You are now logged out. Run 'movio-cli login' to sign in again.")
}

// promptConfirmer asks a y/N question on stdin
type promptConfirmer struct{}

func (c *promptConfirmer) Confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)

	scanner := bufio.NewScanner(os.Stdin)
	if !scanner.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(scanner.Text())) == "y"
}

// autoConfirmer satisfies the confirmation gate without prompting
type autoConfirmer struct{}

func (c *autoConfirmer) Confirm(prompt string) bool {
	return true
}
