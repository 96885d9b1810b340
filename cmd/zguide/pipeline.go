package main

import (
	"fmt"
	"strings"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/protocol/message"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPushCmd(opts *rootOptions) *cobra.Command {
	var (
		endpoint string
		repeat   int
	)
	cmd := &cobra.Command{
		Use:   "push <part> [part...]",
		Short: "Send the arguments as one multipart message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("endpoint") {
				cfg.Push.Endpoint = endpoint
			}
			return runPush(cfg, args, repeat)
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Endpoint override (default from config)")
	cmd.Flags().IntVar(&repeat, "repeat", 1, "Number of times to send the message")
	return cmd
}

func newPullCmd(opts *rootOptions) *cobra.Command {
	var (
		endpoint string
		count    int
	)
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Print every received message",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("endpoint") {
				cfg.Pull.Endpoint = endpoint
			}
			return runPull(cmd, cfg, count)
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Endpoint override (default from config)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many messages (0 runs until interrupted)")
	return cmd
}

func runPush(cfg config.ZguideConfig, parts []string, repeat int) error {
	zctx, sock, err := openSocket(cfg.Context, cfg.Push)
	if err != nil {
		return err
	}
	defer sock.Close()

	for i := 0; i < repeat; i++ {
		if err := sock.SendMessage(message.NewString(parts...)); err != nil {
			return interrupted(zctx, sock, err)
		}
	}
	log.Info().Int("parts", len(parts)).Int("messages", repeat).Msg("push done")
	return nil
}

func runPull(cmd *cobra.Command, cfg config.ZguideConfig, count int) error {
	zctx, sock, err := openSocket(cfg.Context, cfg.Pull)
	if err != nil {
		return err
	}
	defer sock.Close()
	log.Info().Str("endpoint", cfg.Pull.Endpoint).Str("socket_id", sock.ID()).Msg("pull ready")

	var g errgroup.Group
	stopAdmin := startAdmin(&g, cfg, zctx)
	g.Go(func() error {
		defer stopAdmin()
		for n := 0; count == 0 || n < count; n++ {
			m, err := sock.RecvMessage()
			if err != nil {
				return interrupted(zctx, sock, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatMessage(m))
		}
		return nil
	})
	return g.Wait()
}

func formatMessage(m *message.Message) string {
	parts := make([]string, 0, m.Len())
	for _, f := range m.All() {
		s, _ := f.StringAt(0, f.Len())
		parts = append(parts, s)
	}
	return strings.Join(parts, " | ")
}
