package main

import (
	"fmt"

	"github.com/danmuck/zmqkit/internal/config"
	"github.com/danmuck/zmqkit/internal/managed"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newHWServerCmd(opts *rootOptions) *cobra.Command {
	var (
		endpoint string
		count    int
	)
	cmd := &cobra.Command{
		Use:   "hwserver",
		Short: "Reply \"World\" to every request",
		Long: `Reply "World" to every request until interrupted or until --count replies
have been sent.

Sockets are torn down with zero linger, so a reply still in flight when the
server stops is dropped. With --count the last reply can be lost if the
process exits before the client has read it; stop the server by signal
instead when every reply must arrive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("endpoint") {
				cfg.Server.Endpoint = endpoint
			}
			return runHWServer(cmd, cfg, count)
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Endpoint override (default from config)")
	cmd.Flags().IntVar(&count, "count", 0, "Stop after this many replies; the last may be dropped (0 runs until interrupted)")
	return cmd
}

func newHWClientCmd(opts *rootOptions) *cobra.Command {
	var (
		endpoint string
		requests int
	)
	cmd := &cobra.Command{
		Use:   "hwclient",
		Short: "Send \"Hello\" and wait for each reply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if cmd.Flags().Changed("endpoint") {
				cfg.Client.Endpoint = endpoint
			}
			if cmd.Flags().Changed("requests") {
				cfg.Requests = requests
			}
			return runHWClient(cmd, cfg)
		},
	}
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "Endpoint override (default from config)")
	cmd.Flags().IntVar(&requests, "requests", 0, "Request count override (default from config)")
	return cmd
}

func runHWServer(cmd *cobra.Command, cfg config.ZguideConfig, count int) error {
	zctx, sock, err := openSocket(cfg.Context, cfg.Server)
	if err != nil {
		return err
	}
	defer sock.Close()
	log.Info().Str("endpoint", cfg.Server.Endpoint).Str("socket_id", sock.ID()).Msg("hwserver ready")

	var g errgroup.Group
	stopAdmin := startAdmin(&g, cfg, zctx)
	g.Go(func() error {
		defer stopAdmin()
		for n := 0; count == 0 || n < count; n++ {
			req, err := sock.RecvString()
			if err != nil {
				return interrupted(zctx, sock, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Received %s\n", req)
			if err := sock.SendString("World", 0); err != nil {
				return interrupted(zctx, sock, err)
			}
		}
		return nil
	})
	return g.Wait()
}

func runHWClient(cmd *cobra.Command, cfg config.ZguideConfig) error {
	zctx, sock, err := openSocket(cfg.Context, cfg.Client)
	if err != nil {
		return err
	}
	defer sock.Close()

	for i := 0; i < cfg.Requests; i++ {
		if err := sock.SendString("Hello", 0); err != nil {
			return interrupted(zctx, sock, err)
		}
		reply, err := sock.RecvString()
		if err != nil {
			return interrupted(zctx, sock, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Received reply %d [ %s ]\n", i, reply)
	}
	return nil
}

// openSocket creates a socket from sc on the shared context and attaches it.
func openSocket(ctxCfg config.ContextConfig, sc config.SocketConfig) (*managed.Context, *managed.Socket, error) {
	if err := config.ValidateSocketConfig(sc); err != nil {
		return nil, nil, err
	}
	typ, err := sc.SocketType()
	if err != nil {
		return nil, nil, err
	}
	zctx, err := openContext(ctxCfg)
	if err != nil {
		return nil, nil, err
	}
	sock, err := zctx.CreateSocket(typ)
	if err != nil {
		return nil, nil, err
	}
	if err := sc.Attach(sock); err != nil {
		sock.Close()
		return nil, nil, fmt.Errorf("attach %s %s: %w", typ, sc.Endpoint, err)
	}
	return zctx, sock, nil
}

// interrupted hides I/O errors caused by shutdown closing the socket.
func interrupted(zctx *managed.Context, sock *managed.Socket, err error) error {
	if zctx.Closed() || sock.Closed() {
		log.Info().Str("socket_id", sock.ID()).Msg("socket closed, stopping")
		return nil
	}
	return err
}
