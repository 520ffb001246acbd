package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/numeric"
)

// #region commands
var cookingCmd = &cobra.Command{
	Use:   "cooking",
	Short: "Multi-step workflow planner gated by an energy budget",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(_ context.Context, _ storeHandle, s *cooking.Session) error {
			printCooking(s.State(), s.Recommendation())
			return nil
		})
	},
}

var cookingSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update goal, constraints or EU",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var in cooking.Inputs
		if cmd.Flags().Changed("goal") {
			v, _ := cmd.Flags().GetString("goal")
			in.Goal = &v
		}
		if cmd.Flags().Changed("constraints") {
			v, _ := cmd.Flags().GetString("constraints")
			in.Constraints = &v
		}
		if cmd.Flags().Changed("eu") {
			v, _ := cmd.Flags().GetFloat64("eu")
			in.EU = &v
		}
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			if err := s.SetInputs(ctx, in); err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "inputs", s.SlotKey(), in)
			printCooking(s.State(), s.Recommendation())
			return nil
		})
	},
}

var cookingGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Replace the step list with a fresh proposal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			steps, err := s.Generate(ctx)
			if err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "generate", s.SlotKey(), map[string]int{"steps": len(steps)})
			printSteps(steps)
			return nil
		})
	},
}

var cookingRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate today's plan under the current EU",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			res, err := s.Run(ctx)
			if err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "run", s.SlotKey(), map[string]any{
				"depth": res.Recommendation.Depth, "checklist": len(res.Checklist),
			})
			fmt.Printf("Depth: %s  (%s)\n\n", res.Recommendation.Depth, res.Recommendation.Note)
			printSteps(res.Steps)
			fmt.Println("\nToday:")
			for _, it := range res.Checklist {
				fmt.Println("  " + cooking.TodoMessage(it))
			}
			return nil
		})
	},
}

var cookingAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a blank Custom step",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			st, err := s.AddStep(ctx)
			if err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "step_add", s.SlotKey(), st)
			fmt.Println(st.ID)
			return nil
		})
	},
}

var cookingEditCmd = &cobra.Command{
	Use:   "edit id",
	Short: "Edit a step's name or detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch cooking.StepPatch
		if cmd.Flags().Changed("name") {
			v, _ := cmd.Flags().GetString("name")
			patch.Name = &v
		}
		if cmd.Flags().Changed("detail") {
			v, _ := cmd.Flags().GetString("detail")
			patch.Detail = &v
		}
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			st, err := s.EditStep(ctx, args[0], patch)
			if err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "step_edit", s.SlotKey(), st)
			printSteps([]cooking.Step{st})
			return nil
		})
	},
}

var cookingDeleteCmd = &cobra.Command{
	Use:   "delete id",
	Short: "Delete a step",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			if err := s.DeleteStep(ctx, args[0]); err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "step_delete", s.SlotKey(), map[string]string{"id": args[0]})
			return nil
		})
	},
}

var cookingLogCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the execution log, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(_ context.Context, _ storeHandle, s *cooking.Session) error {
			lines := s.LogLines()
			if len(lines) == 0 {
				fmt.Println("no log entries")
			}
			for _, l := range lines {
				fmt.Println(l)
			}
			return nil
		})
	},
}

var cookingResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default goal and a fresh step proposal",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			if err := s.Reset(ctx); err != nil {
				return err
			}
			record(ctx, h, cooking.Page, "reset", s.SlotKey(), nil)
			printCooking(s.State(), s.Recommendation())
			return nil
		})
	},
}

var cookingExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the session snapshot to the export directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withCooking(func(ctx context.Context, h storeHandle, s *cooking.Session) error {
			return exportPage(ctx, h, cooking.Page, s.SlotKey(), s.Snapshot())
		})
	},
}

func init() {
	cookingSetCmd.Flags().String("goal", "", "Workflow goal")
	cookingSetCmd.Flags().String("constraints", "", "Constraints / context")
	cookingSetCmd.Flags().Float64("eu", cooking.DefaultEU, "Energy budget 0-100")
	cookingEditCmd.Flags().String("name", "", "Step name")
	cookingEditCmd.Flags().String("detail", "", "Step detail")

	cookingCmd.AddCommand(cookingSetCmd, cookingGenerateCmd, cookingRunCmd, cookingAddCmd,
		cookingEditCmd, cookingDeleteCmd, cookingLogCmd, cookingResetCmd, cookingExportCmd)
}

// #endregion commands

// #region helpers
func withCooking(fn func(ctx context.Context, h storeHandle, s *cooking.Session) error) error {
	return withStore(func(ctx context.Context, h storeHandle) error {
		return fn(ctx, h, cooking.Open(ctx, h.backend, logger))
	})
}

func printCooking(st cooking.SessionState, rec cooking.Recommendation) {
	fmt.Printf("Goal:        %s\n", st.Goal)
	fmt.Printf("Constraints: %s\n", st.Constraints)
	fmt.Printf("EU:          %d  ->  %s (%s)\n\n", numeric.Round(st.EU), rec.Depth, rec.Note)
	printSteps(st.Steps)
}

func printSteps(steps []cooking.Step) {
	for _, s := range steps {
		fmt.Printf("[%s] %s  (%s)\n", s.Stage, s.Name, s.ID)
		if s.Detail != "" {
			fmt.Printf("    %s\n", s.Detail)
		}
	}
}

// #endregion helpers
