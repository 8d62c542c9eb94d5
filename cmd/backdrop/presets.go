package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/phanxgames/backdrop"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name...]",
	Short: "Print built-in presets as YAML",
	Long: `Prints each named preset (all of them by default) as a YAML document that
can be saved, edited and passed back with --config.`,
	RunE: printPresets,
}

func printPresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = backdrop.PresetNames()
	}
	out := cmd.OutOrStdout()
	for i, name := range names {
		cfg, err := backdrop.Preset(name)
		if err != nil {
			return err
		}
		data, err := backdrop.MarshalPreset(cfg)
		if err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		fmt.Fprintf(out, "# %s\n%s", name, data)
	}
	return nil
}
