package app

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/bench"
)

func (a *App) newPlatforms() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "list available platforms and plugin load failures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.flags.resolve(a, cmd)
			if err != nil {
				return err
			}
			d, err := bench.Initialize(a.registry, cfg.PluginDir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "plugin directory: %s\n\n", d.PluginDir)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSPEED\tPROPERTIES")
			for _, p := range a.registry.Platforms() {
				var props []string
				for _, name := range p.PropertyNames() {
					props = append(props, name+"="+p.DefaultPropertyValue(name))
				}
				fmt.Fprintf(tw, "%s\t%g\t%s\n", p.Name(), p.Speed(), strings.Join(props, ","))
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			if len(d.Failures) > 0 {
				fmt.Fprintln(out, "\nplugin load failures:")
				for _, f := range d.Failures {
					fmt.Fprintf(out, "  %s\n", f.Error())
				}
			}
			return nil
		},
	}
}
