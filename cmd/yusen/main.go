package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yusen/interactive-demos/internal/config"
	"github.com/yusen/interactive-demos/internal/export"
	"github.com/yusen/interactive-demos/internal/logging"
	"github.com/yusen/interactive-demos/internal/state"
)

var (
	// Global flags
	cfgPath string
	verbose bool
	backend string

	cfg    config.Config
	logger *zap.Logger
)

// #region root
var rootCmd = &cobra.Command{
	Use:   "yusen",
	Short: "Interactive demo engines: ERS scoring, agent calibration, cooking workflow",
	Long: `yusen runs three demo calculators over a shared session store.

Each page keeps one JSON session slot. Every command restores the slot,
applies one transition, and writes the whole document back.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			return err
		}
		if backend != "" {
			cfg.Storage.Backend = backend
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		logger, err = logging.NewLogger(level, cfg.Log.Format)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "yusen.yaml", "Config file (missing file uses defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&backend, "storage", "", "Override storage backend (sqlite|badger|memory)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ersCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(cookingCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// #endregion root

// #region backend
// storeHandle is an opened backend with its action recorder.
type storeHandle struct {
	backend  state.Backend
	recorder logging.Recorder
	sql      *state.Store
}

func (h storeHandle) Close() error {
	return h.backend.Close()
}

// openBackend opens the configured slot store. Only the SQLite backend keeps
// an action log.
func openBackend(c config.Config) (storeHandle, error) {
	switch c.Storage.Backend {
	case "sqlite":
		st, err := state.NewStore(c.Storage.SQLite)
		if err != nil {
			return storeHandle{}, err
		}
		return storeHandle{backend: st, recorder: logging.SQLRecorder{DB: st.DB()}, sql: st}, nil
	case "badger":
		st, err := state.OpenBadger(state.BadgerConfig{Dir: c.Storage.BadgerDir, Logger: logger})
		if err != nil {
			return storeHandle{}, err
		}
		return storeHandle{backend: st, recorder: logging.NopRecorder{}}, nil
	case "memory":
		return storeHandle{backend: state.NewMemoryStore(), recorder: logging.NopRecorder{}}, nil
	}
	return storeHandle{}, fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
}

// withStore opens the backend for one command and closes it afterwards.
func withStore(fn func(ctx context.Context, h storeHandle) error) error {
	h, err := openBackend(cfg)
	if err != nil {
		return err
	}
	defer h.Close()
	return fn(context.Background(), h)
}

// record writes a page action, logging rather than failing on error.
func record(ctx context.Context, h storeHandle, page, action, slotKey string, summary any) {
	if err := h.recorder.Record(ctx, page, action, slotKey, summary); err != nil {
		logger.Warn("record action failed", zap.String("page", page), zap.String("action", action), zap.Error(err))
	}
}

// exportPage writes snapshot to the configured export directory and prints
// the path.
func exportPage(ctx context.Context, h storeHandle, page, slotKey string, snapshot any) error {
	name, err := export.Export(export.DirSink{Dir: cfg.Export.Dir}, page, snapshot, time.Now())
	if err != nil {
		return err
	}
	record(ctx, h, page, "export", slotKey, map[string]string{"filename": name})
	fmt.Println(filepath.Join(cfg.Export.Dir, name))
	return nil
}

// #endregion backend

// #region output
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// #endregion output
