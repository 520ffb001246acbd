package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/yusen/interactive-demos/internal/agents"
	"github.com/yusen/interactive-demos/internal/cooking"
	"github.com/yusen/interactive-demos/internal/ers"
	"github.com/yusen/interactive-demos/internal/logging"
	"github.com/yusen/interactive-demos/internal/state"
)

// #region command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "List stored session slots and recent page actions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		actions, _ := cmd.Flags().GetInt("actions")
		page, _ := cmd.Flags().GetString("page")
		jsonOut, _ := cmd.Flags().GetBool("json")
		drop, _ := cmd.Flags().GetString("drop")
		return withStore(func(ctx context.Context, h storeHandle) error {
			if drop != "" {
				if err := dropSlot(ctx, h, drop); err != nil {
					return err
				}
				fmt.Printf("dropped %s\n", drop)
			}
			return runInspect(ctx, h, page, actions, jsonOut)
		})
	},
}

func init() {
	inspectCmd.Flags().Int("actions", 10, "Show N most recent actions (sqlite only)")
	inspectCmd.Flags().String("page", "", "Filter actions to one page")
	inspectCmd.Flags().Bool("json", false, "Output as JSON instead of table")
	inspectCmd.Flags().String("drop", "", "Delete one slot first; its page restarts from defaults")
}

// #endregion command

// #region slots
type slotRow struct {
	Key       string `json:"key"`
	Page      string `json:"page"`
	Bytes     int    `json:"bytes"`
	Summary   string `json:"summary"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type inspectOutput struct {
	Slots   []slotRow             `json:"slots"`
	Actions []logging.ActionEntry `json:"actions,omitempty"`
}

func pageForKey(key string) string {
	switch key {
	case ers.StorageKey:
		return ers.Page
	case agents.StorageKey:
		return agents.Page
	case cooking.StorageKey:
		return cooking.Page
	}
	return ""
}

// summarizeSlot reads the few fields worth a table column straight from the
// stored JSON, without decoding into the page types.
func summarizeSlot(key string, payload []byte) slotRow {
	row := slotRow{Key: key, Page: pageForKey(key), Bytes: len(payload)}
	if !gjson.ValidBytes(payload) {
		row.Summary = "invalid json"
		return row
	}
	doc := gjson.ParseBytes(payload)
	switch key {
	case ers.StorageKey:
		n := doc.Get("history.#").Int()
		row.Summary = fmt.Sprintf("history=%d", n)
		if n > 0 {
			last := doc.Get(fmt.Sprintf("history.%d", n-1))
			row.Summary += fmt.Sprintf(" last=%s/%s ers=%.0f",
				last.Get("mode").String(), last.Get("gate").String(), last.Get("ers").Float())
		}
	case agents.StorageKey:
		row.Summary = fmt.Sprintf("agents=%d rounds=%d",
			len(doc.Get("agents").Map()), doc.Get("rounds.#").Int())
	case cooking.StorageKey:
		row.Summary = fmt.Sprintf("eu=%.0f steps=%d log=%d goal=%q",
			doc.Get("eu").Float(), doc.Get("steps.#").Int(), doc.Get("log.#").Int(), doc.Get("goal").String())
	default:
		row.Summary = "unknown slot"
	}
	return row
}

func listSlotRows(ctx context.Context, h storeHandle) ([]slotRow, error) {
	if h.sql != nil {
		recs, err := h.sql.ListSlots(ctx)
		if err != nil {
			return nil, err
		}
		rows := make([]slotRow, 0, len(recs))
		for _, r := range recs {
			row := summarizeSlot(r.Key, r.Payload)
			row.UpdatedAt = r.UpdatedAt.Format(time.RFC3339)
			rows = append(rows, row)
		}
		return rows, nil
	}

	keys, err := h.backend.Keys(ctx)
	if err != nil {
		return nil, err
	}
	rows := make([]slotRow, 0, len(keys))
	for _, k := range keys {
		payload, err := h.backend.Get(ctx, k)
		if err != nil {
			if errors.Is(err, state.ErrNotFound) {
				continue
			}
			return nil, err
		}
		rows = append(rows, summarizeSlot(k, payload))
	}
	return rows, nil
}

// dropSlot deletes a stored slot. Dropping a key that was never written is an
// error.
func dropSlot(ctx context.Context, h storeHandle, key string) error {
	if _, err := h.backend.Get(ctx, key); err != nil {
		return fmt.Errorf("drop %s: %w", key, err)
	}
	if err := h.backend.Delete(ctx, key); err != nil {
		return err
	}
	record(ctx, h, pageForKey(key), "drop", key, nil)
	return nil
}

// #endregion slots

// #region output
func runInspect(ctx context.Context, h storeHandle, page string, actions int, jsonOut bool) error {
	var out inspectOutput
	var err error
	if out.Slots, err = listSlotRows(ctx, h); err != nil {
		return err
	}
	if h.sql != nil && actions > 0 {
		if out.Actions, err = logging.ListActions(ctx, h.sql.DB(), page, actions); err != nil {
			return err
		}
	}

	if jsonOut {
		return printJSON(out)
	}

	if len(out.Slots) == 0 {
		fmt.Println("no slots stored")
	} else {
		fmt.Printf("%-24s  %-8s  %6s  %-20s  %s\n", "Slot", "Page", "Bytes", "Updated", "Summary")
		for _, r := range out.Slots {
			updated := r.UpdatedAt
			if updated == "" {
				updated = "—"
			}
			fmt.Printf("%-24s  %-8s  %6d  %-20s  %s\n", r.Key, r.Page, r.Bytes, updated, r.Summary)
		}
	}

	if len(out.Actions) > 0 {
		fmt.Printf("\nRecent actions:\n")
		for _, a := range out.Actions {
			fmt.Printf("  %s  %-8s  %-12s  %s\n",
				a.CreatedAt.Format(time.RFC3339), a.Page, a.Action, a.SummaryJSON)
		}
	}
	return nil
}

// #endregion output
