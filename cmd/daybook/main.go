package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"daybook/internal/command"
	"daybook/internal/config"
	"daybook/internal/logging"
	"daybook/internal/session"
	"daybook/internal/store"
	"daybook/internal/transport"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Global flags
	verbose    bool
	configPath string
	apiSecret  string

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "daybook",
	Short: "daybook - natural-language planner",
	Long: `daybook manages your events, tasks, habits, goals, and categories
through plain language. Every instruction is translated into an explicit
command before anything is written, so a misunderstood request changes
nothing.

Run without arguments to start the interactive chat interface.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat(cmd.Context())
	},
}

// askCmd runs a single instruction and exits
var askCmd = &cobra.Command{
	Use:   "ask [instruction]",
	Short: "Run a single instruction and exit",
	Long: `Sends one instruction through the full pipeline and prints the
outcome. Exits non-zero when the command fails or nothing was executed.

Example:
  daybook ask "add a dentist appointment tomorrow at 3pm"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

// versionCmd prints the version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the daybook version",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.DefaultConfig(config.DefaultHome())
		fmt.Printf("daybook %s\n", cfg.Version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.daybook/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiSecret, "api-secret", "", "app secret (overrides config and DAYBOOK_APP_SECRET)")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired pipeline for one process.
type app struct {
	cfg      *config.Config
	store    *store.SQLiteStore
	client   *transport.Client
	executor *command.Executor
	session  *session.Session
}

// bootstrap loads config, opens the store, and wires the pipeline.
func bootstrap() (*app, error) {
	home := config.DefaultHome()
	path := configPath
	if path == "" {
		path = filepath.Join(home, "config.yaml")
	} else {
		home = filepath.Dir(path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if apiSecret != "" {
		cfg.API.AppSecret = apiSecret
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if err := logging.Initialize(home); err != nil {
		logger.Warn("file logging disabled", zap.Error(err))
	}
	logging.Boot("daybook %s starting, store=%s", cfg.Version, cfg.Store.DatabasePath)

	// Mint a stable device id on first run.
	if cfg.API.DeviceID == "" {
		cfg.API.DeviceID = uuid.NewString()
		if err := cfg.Save(path); err != nil {
			logger.Warn("could not persist device id", zap.Error(err))
		}
	}

	st, err := store.NewSQLiteStore(cfg.Store.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	client := transport.NewClient(transport.Config{
		BaseURL:   cfg.API.BaseURL,
		AppSecret: cfg.API.AppSecret,
		UserID:    cfg.API.UserID,
		DeviceID:  cfg.API.DeviceID,
		Timeout:   cfg.APITimeout(),
		ResetUnit: transport.ResetUnit(cfg.API.ResetUnit),
	})

	executor := command.NewExecutor(command.NewRouter(st))
	sess := session.New(client, executor, st, session.Options{
		Model:       cfg.API.Model,
		Temperature: cfg.API.Temperature,
		MaxTokens:   cfg.API.MaxTokens,
	})

	return &app{cfg: cfg, store: st, client: client, executor: executor, session: sess}, nil
}

// close releases the pipeline in reverse wiring order.
func (a *app) close() {
	a.executor.Close()
	if err := a.store.Close(); err != nil {
		logger.Warn("store close failed", zap.Error(err))
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	instruction := joinArgs(args)
	reply, err := a.session.HandleTurn(cmd.Context(), instruction)
	if err != nil {
		return describeTransportError(err)
	}

	renderReply(reply)
	if reply.Result != nil && !reply.Result.Success {
		os.Exit(1)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
