package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/numeric"
)

// #region commands
var ersCmd = &cobra.Command{
	Use:   "ers",
	Short: "Energy/risk/stability scoring panel",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(_ context.Context, _ storeHandle, s *ers.Session) error {
			printERS(s.State().Inputs, s.Results())
			return nil
		})
	},
}

var ersSetCmd = &cobra.Command{
	Use:   "set name=value...",
	Short: "Set one or more inputs (clamped to 0-100)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		values, err := parseAssignments(args)
		if err != nil {
			return err
		}
		return withERS(func(ctx context.Context, h storeHandle, s *ers.Session) error {
			r, err := setERSInputs(ctx, s, values)
			if err != nil {
				return err
			}
			record(ctx, h, ers.Page, "inputs", s.SlotKey(), values)
			printERS(s.State().Inputs, r)
			return nil
		})
	},
}

var ersPresetCmd = &cobra.Command{
	Use:       "preset name",
	Short:     "Apply a preset: " + strings.Join(ers.PresetNames, ", "),
	Args:      cobra.ExactArgs(1),
	ValidArgs: ers.PresetNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(ctx context.Context, h storeHandle, s *ers.Session) error {
			r, err := s.ApplyPreset(ctx, args[0])
			if err != nil {
				return err
			}
			record(ctx, h, ers.Page, "preset", s.SlotKey(), map[string]string{"preset": args[0]})
			printERS(s.State().Inputs, r)
			return nil
		})
	},
}

var ersCalculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Score the inputs and append a history entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(ctx context.Context, h storeHandle, s *ers.Session) error {
			r, err := s.Calculate(ctx)
			if err != nil {
				return err
			}
			record(ctx, h, ers.Page, "calculate", s.SlotKey(), r)
			printERS(s.State().Inputs, r)
			return nil
		})
	},
}

var ersHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show calculation history, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(_ context.Context, _ storeHandle, s *ers.Session) error {
			h := s.State().History
			if len(h) == 0 {
				fmt.Println("no history")
				return nil
			}
			fmt.Printf("%-19s  %5s  %5s  %5s  %-14s  %s\n", "Time", "ERS", "Risk", "Stab", "Mode", "Gate")
			for i := len(h) - 1; i >= 0; i-- {
				e := h[i]
				fmt.Printf("%-19s  %5d  %5d  %5d  %-14s  %s\n",
					numeric.DisplayTime(e.When), numeric.Round(e.ERS), numeric.Round(e.Risk),
					numeric.Round(e.Stability), e.Mode, e.Gate)
			}
			return nil
		})
	},
}

var ersResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default inputs and clear history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(ctx context.Context, h storeHandle, s *ers.Session) error {
			if err := s.Reset(ctx); err != nil {
				return err
			}
			record(ctx, h, ers.Page, "reset", s.SlotKey(), nil)
			printERS(s.State().Inputs, s.Results())
			return nil
		})
	},
}

var ersExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the session snapshot to the export directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withERS(func(ctx context.Context, h storeHandle, s *ers.Session) error {
			return exportPage(ctx, h, ers.Page, s.SlotKey(), s.Snapshot())
		})
	},
}

var consoleCmd = &cobra.Command{
	Use:   "console command...",
	Short: "Explain an ERS console command (def9, sniper, sentinel, freezing, 3mor, recovery)",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(ers.Console(strings.Join(args, " ")))
		return nil
	},
}

func init() {
	ersCmd.AddCommand(ersSetCmd, ersPresetCmd, ersCalculateCmd, ersHistoryCmd, ersResetCmd, ersExportCmd)
}

// #endregion commands

// #region helpers
func withERS(fn func(ctx context.Context, h storeHandle, s *ers.Session) error) error {
	return withStore(func(ctx context.Context, h storeHandle) error {
		return fn(ctx, h, ers.Open(ctx, h.backend, logger))
	})
}

// parseAssignments parses name=value arguments.
func parseAssignments(args []string) (map[string]float64, error) {
	out := make(map[string]float64, len(args))
	for _, a := range args {
		name, raw, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", a)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		out[strings.TrimSpace(name)] = v
	}
	return out, nil
}

// setERSInputs assigns values to the session inputs. Several assignments are
// validated together before anything is persisted.
func setERSInputs(ctx context.Context, s *ers.Session, values map[string]float64) (ers.Result, error) {
	if len(values) == 1 {
		for name, v := range values {
			return s.SetInput(ctx, name, v)
		}
	}
	in := s.State().Inputs
	for name, v := range values {
		if err := in.Set(name, v); err != nil {
			return ers.Result{}, err
		}
	}
	return s.ApplyInputs(ctx, in)
}

func printERS(in ers.Inputs, r ers.Result) {
	fmt.Println("Inputs:")
	for _, name := range ers.FieldNames {
		v, _ := in.Get(name)
		fmt.Printf("  %-12s %3d\n", name, numeric.Round(v))
	}
	fmt.Printf("\nCore %s  Risk %s  Stability %s  ERS %s\n",
		numeric.FmtPct(r.Core), numeric.FmtPct(r.Risk), numeric.FmtPct(r.Stability), numeric.FmtPct(r.ERS))
	fmt.Printf("Mode: %s  (%s)\n", r.Mode, r.Action)
	fmt.Printf("Gate: %s  (%s)\n", r.Gate, r.GateHint)
}

// #endregion helpers
