package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/numeric"
)

// #region commands
var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Five-agent collaboration calibration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAgents(func(_ context.Context, _ storeHandle, s *agents.Session) error {
			printAgents(s.Results())
			return nil
		})
	},
}

var agentsSetCmd = &cobra.Command{
	Use:   "set agent dim=value...",
	Short: "Set dimensions (alignment, confidence, latency, cost) for one agent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		if _, ok := agents.Lookup(id); !ok {
			return fmt.Errorf("%w: %q", agents.ErrUnknownAgent, id)
		}
		values, err := parseAssignments(args[1:])
		if err != nil {
			return err
		}
		return withAgents(func(ctx context.Context, h storeHandle, s *agents.Session) error {
			r, err := setAgentDims(ctx, s, id, values)
			if err != nil {
				return err
			}
			record(ctx, h, agents.Page, "dims", s.SlotKey(), map[string]any{"agent": id, "dims": s.State().Agents[id]})
			printAgents(r)
			return nil
		})
	},
}

var agentsRoundCmd = &cobra.Command{
	Use:       "round negotiate|stress",
	Short:     "Run one round over every agent",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(agents.RoundNegotiate), string(agents.RoundStress)},
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := agents.ParseRoundKind(args[0])
		if err != nil {
			return err
		}
		times, _ := cmd.Flags().GetInt("times")
		return withAgents(func(ctx context.Context, h storeHandle, s *agents.Session) error {
			for i := 0; i < times; i++ {
				r, err := s.RunRound(ctx, kind)
				if err != nil {
					return err
				}
				record(ctx, h, agents.Page, "round", s.SlotKey(), r)
				fmt.Println(agents.FormatRound(r))
			}
			return nil
		})
	},
}

var agentsLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the round log, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAgents(func(_ context.Context, _ storeHandle, s *agents.Session) error {
			lines := s.RoundLines()
			if len(lines) == 0 {
				fmt.Println("no rounds")
			}
			for _, l := range lines {
				fmt.Println(l)
			}
			return nil
		})
	},
}

var agentsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore default dimensions and clear the round log",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAgents(func(ctx context.Context, h storeHandle, s *agents.Session) error {
			if err := s.Reset(ctx); err != nil {
				return err
			}
			record(ctx, h, agents.Page, "reset", s.SlotKey(), nil)
			printAgents(s.Results())
			return nil
		})
	},
}

var agentsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the session snapshot to the export directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withAgents(func(ctx context.Context, h storeHandle, s *agents.Session) error {
			return exportPage(ctx, h, agents.Page, s.SlotKey(), s.Snapshot())
		})
	},
}

func init() {
	agentsRoundCmd.Flags().Int("times", 1, "Number of rounds to run")
	agentsCmd.AddCommand(agentsSetCmd, agentsRoundCmd, agentsLogCmd, agentsResetCmd, agentsExportCmd)
}

// #endregion commands

// #region helpers
func withAgents(fn func(ctx context.Context, h storeHandle, s *agents.Session) error) error {
	return withStore(func(ctx context.Context, h storeHandle) error {
		return fn(ctx, h, agents.Open(ctx, h.backend, logger))
	})
}

// setAgentDims assigns dimension values to one agent. Several assignments are
// validated together before anything is persisted.
func setAgentDims(ctx context.Context, s *agents.Session, id string, values map[string]float64) (agents.Result, error) {
	if len(values) == 1 {
		for dim, v := range values {
			return s.SetDim(ctx, id, dim, v)
		}
	}
	d := s.State().Agents[id]
	for dim, v := range values {
		next, err := d.With(dim, v)
		if err != nil {
			return agents.Result{}, err
		}
		d = next
	}
	return s.SetAgent(ctx, id, d)
}

func printAgents(r agents.Result) {
	fmt.Printf("%-11s  %-34s  %5s  %5s  %5s  %5s  %5s\n", "Agent", "Role", "Align", "Conf", "Lat", "Cost", "Score")
	for _, row := range r.Rows {
		fmt.Printf("%-11s  %-34s  %5d  %5d  %5d  %5d  %5d\n",
			row.Name, row.Role, numeric.Round(row.Alignment), numeric.Round(row.Confidence),
			numeric.Round(row.Latency), numeric.Round(row.Cost), numeric.Round(row.Score))
	}
	fmt.Printf("\nConsensus %s  Dispersion %.1f\n", numeric.FmtPct(r.Consensus), r.Dispersion)
	if top, ok := r.TopConflict(); ok {
		fmt.Printf("Top conflict: %s (%d)\n", top.Name, numeric.Round(top.Value))
	}
}

// #endregion helpers
