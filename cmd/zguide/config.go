package main

import (
	"fmt"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	var (
		output    string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective config as TOML",
		Long: `Print the effective config as TOML. Without --config this is the default
config; with --output it is written to a file instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "" {
				return config.Write(output, opts.cfg, overwrite)
			}
			out, err := config.Render(opts.cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(out))
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this path instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "force", false, "Overwrite an existing file")
	return cmd
}
