package main

import (
	"strings"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/managed"
	"github.com/danmuck/zmqkit/internal/observability"
	"github.com/spf13/cobra"
)

// openContext hands out the managed context the subcommands share.
var openContext = func(cfg config.ContextConfig) (*managed.Context, error) {
	if err := managed.Configure(cfg); err != nil {
		return nil, err
	}
	return managed.Instance(), nil
}

type rootOptions struct {
	configPath string
	cfg        config.ZguideConfig
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{cfg: config.DefaultZguideConfig()}

	root := &cobra.Command{
		Use:   "zguide",
		Short: "ZeroMQ guide examples on the managed socket context",
		Long: `zguide runs the classic request/reply and pipeline examples on top of the
managed socket context.

Examples:
  zguide hwserver
  zguide hwclient --requests 3
  zguide push part1 part2
  zguide pull --count 1
  zguide config > zguide.toml`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}
			observability.InitLogger("zguide")
			if strings.TrimSpace(opts.configPath) == "" {
				return nil
			}
			cfg, err := config.LoadZguideConfig(opts.configPath)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (.toml, .yaml, .yml)")

	root.AddCommand(
		newHWServerCmd(opts),
		newHWClientCmd(opts),
		newPushCmd(opts),
		newPullCmd(opts),
		newConfigCmd(opts),
	)
	return root
}
