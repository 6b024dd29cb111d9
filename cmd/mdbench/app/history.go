package app

import (
	"github.com/spf13/cobra"

	"github.com/san-kum/mdbench/internal/storage"
	"github.com/san-kum/mdbench/internal/tui"
)

func (a *App) newHistory() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "show recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.flags.resolve(a, cmd)
			if err != nil {
				return err
			}
			dir := cfg.RecordDir
			if dir == "" {
				dir = DefaultRecordDir
			}
			records, err := storage.New(dir, a.fs).List()
			if err != nil {
				return err
			}
			return tui.RenderHistory(cmd.OutOrStdout(), records)
		},
	}
}
