package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"go-drummer/pads"
)

var kitsYAML bool

var kitsCmd = &cobra.Command{
	Use:   "kits",
	Short: "List built-in drum kits",
	Long:  `Display every built-in kit with its pad keys, labels and sample sources. The current kit is marked with *.`,
	RunE:  runKits,
}

func init() {
	kitsCmd.Flags().BoolVar(&kitsYAML, "yaml", false, "print kits as YAML (usable as a pads: list)")
	rootCmd.AddCommand(kitsCmd)
}

// kitView is the YAML shape of a kit; pads match the config pads: entries
type kitView struct {
	Name string    `yaml:"name"`
	Pads []padView `yaml:"pads"`
}

type padView struct {
	Key   string `yaml:"key"`
	Src   string `yaml:"src"`
	Label string `yaml:"label"`
}

func kitViews() []kitView {
	var views []kitView
	for _, name := range pads.KitNames() {
		kit := pads.Kits[name]
		v := kitView{Name: name}
		for _, e := range kit.Entries {
			v.Pads = append(v.Pads, padView{Key: e.Key.String(), Src: e.Source, Label: e.Label})
		}
		views = append(views, v)
	}
	return views
}

func runKits(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	views := kitViews()

	if kitsYAML {
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return fmt.Errorf("encoding kits: %w", err)
		}
		return enc.Close()
	}

	current := ""
	if cfg != nil && len(cfg.Pads) == 0 {
		current = cfg.Kit
	}

	for i, v := range views {
		if i > 0 {
			fmt.Fprintln(out)
		}
		mark := ""
		if v.Name == current {
			mark = " *"
		}
		fmt.Fprintf(out, "%s%s\n", v.Name, mark)
		for _, p := range v.Pads {
			fmt.Fprintf(out, "  %s  %-16s %s\n", p.Key, p.Label, p.Src)
		}
	}
	return nil
}
