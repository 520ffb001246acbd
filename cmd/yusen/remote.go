package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/rpc"
)

// #region commands
var remoteCmd = &cobra.Command{
	Use:   "remote",
	Short: "Call the engines over gRPC without touching local sessions",
}

var remoteScoreCmd = &cobra.Command{
	Use:   "score [name=value...]",
	Short: "Score ERS inputs remotely (starts from defaults or --preset)",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := ers.DefaultState().Inputs
		if name, _ := cmd.Flags().GetString("preset"); name != "" {
			p, ok := ers.Presets[name]
			if !ok {
				return fmt.Errorf("%w: %q", ers.ErrUnknownPreset, name)
			}
			in = p
		}
		values, err := parseAssignments(args)
		if err != nil {
			return err
		}
		for name, v := range values {
			if err := in.Set(name, v); err != nil {
				return err
			}
		}
		return withRemote(func(ctx context.Context, c *rpc.Client) error {
			r, err := c.ScoreERS(ctx, in)
			if err != nil {
				return err
			}
			printERS(in, r)
			return nil
		})
	},
}

var remoteAgentsCmd = &cobra.Command{
	Use:   "agents [negotiate|stress]",
	Short: "Compute calibration for the default roster, optionally after one round",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var kind agents.RoundKind
		if len(args) == 1 {
			k, err := agents.ParseRoundKind(args[0])
			if err != nil {
				return err
			}
			kind = k
		}
		return withRemote(func(ctx context.Context, c *rpc.Client) error {
			r, err := c.ComputeAgents(ctx, agents.DefaultState().Agents, kind)
			if err != nil {
				return err
			}
			if r.Round != nil {
				fmt.Println(agents.FormatRound(*r.Round))
				fmt.Println()
			}
			printAgents(r.Result)
			return nil
		})
	},
}

var remoteDepthCmd = &cobra.Command{
	Use:   "depth",
	Short: "Recommend execution depth for an energy budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eu, _ := cmd.Flags().GetFloat64("eu")
		goal, _ := cmd.Flags().GetString("goal")
		return withRemote(func(ctx context.Context, c *rpc.Client) error {
			r, err := c.RecommendDepth(ctx, rpc.DepthRequest{EU: eu, Goal: goal})
			if err != nil {
				return err
			}
			fmt.Printf("Depth: %s  (%s)\n", r.Recommend.Depth, r.Recommend.Note)
			for _, it := range r.Checklist {
				fmt.Printf("  [%s] %s\n", it.Stage, it.Item)
			}
			return nil
		})
	},
}

var remoteConsoleCmd = &cobra.Command{
	Use:   "console command...",
	Short: "Explain a console command remotely",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withRemote(func(ctx context.Context, c *rpc.Client) error {
			reply, err := c.Console(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Println(reply)
			return nil
		})
	},
}

func init() {
	remoteCmd.PersistentFlags().String("addr", "", "gRPC address (defaults to server.grpc_addr)")
	remoteCmd.PersistentFlags().Duration("timeout", 5*time.Second, "Per-call timeout")
	remoteScoreCmd.Flags().String("preset", "", "Start from a preset: "+strings.Join(ers.PresetNames, ", "))
	remoteDepthCmd.Flags().Float64("eu", cooking.DefaultEU, "Energy budget 0-100")
	remoteDepthCmd.Flags().String("goal", "", "Goal used for the checklist preview")

	remoteCmd.AddCommand(remoteScoreCmd, remoteAgentsCmd, remoteDepthCmd, remoteConsoleCmd)
}

// #endregion commands

// #region helpers
func withRemote(fn func(ctx context.Context, c *rpc.Client) error) error {
	addr, _ := remoteCmd.PersistentFlags().GetString("addr")
	if addr == "" {
		addr = cfg.Server.GRPCAddr
	}
	timeout, _ := remoteCmd.PersistentFlags().GetDuration("timeout")

	c, err := rpc.NewClient(addr)
	if err != nil {
		return err
	}
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return fn(ctx, c)
}

// #endregion helpers
