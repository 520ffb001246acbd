package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/yusen/interactive-demos/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the yusen config file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the effective configuration to --config",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if err := initConfig(cfgPath, cfg, force); err != nil {
			return err
		}
		fmt.Println(cfgPath)
		return nil
	},
}

func init() {
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing file")
	configCmd.AddCommand(configInitCmd)
}

// initConfig writes c to path, refusing to replace an existing file unless
// force is set.
func initConfig(path string, c config.Config, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config %s already exists (use --force)", path)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	return config.Write(path, c)
}
