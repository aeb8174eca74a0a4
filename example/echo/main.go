// Command echo is a websocket echo server and client built on top of plain
// TCP connections.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/containerd/log"
	"github.com/spf13/cobra"

	"github.com/streamws/ws"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var logLevel string
	cmd := &cobra.Command{
		Use:           "echo",
		Short:         "WebSocket echo server and client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return log.SetLevel(logLevel)
		},
	}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.AddCommand(newServeCommand(), newSendCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Accept websocket connections and echo every data frame back",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "listen", ":9001", "address to listen")
	return cmd
}

func newSendCommand() *cobra.Command {
	var (
		addr    string
		host    string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "send [flags] MESSAGE...",
		Short: "Send text messages to an echo server and print the replies",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			replies, err := send(ctx, addr, host, args)
			for _, r := range replies {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:9001", "address of the server")
	cmd.Flags().StringVar(&host, "host", "", "value of the Host header (default is the address)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "handshake timeout")
	return cmd
}

func serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	log.G(ctx).WithField("addr", ln.Addr().String()).Info("listening")

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go handle(ctx, conn)
	}
}

func handle(ctx context.Context, conn net.Conn) {
	logger := log.G(ctx).WithField("remote", conn.RemoteAddr().String())
	u := ws.Upgrader{Logger: logger}

	c, err := u.Accept(ctx, conn)
	if err != nil {
		logger.WithError(err).Warn("upgrade failed")
		conn.Close()
		return
	}
	if err := echo(c, logger); err != nil {
		logger.WithError(err).Warn("connection failed")
	}
	conn.Close()
}

// echo replies to every data frame with the same frame and answers pings.
// It returns when the client starts the closing handshake.
func echo(c *ws.Conn, logger *log.Entry) error {
	for {
		f, err := c.Receive()
		if err != nil {
			if err == ws.ErrClosed {
				return nil
			}
			if serr := c.Send(ws.NewCloseFrame(ws.StatusProtocolError)); serr != nil {
				logger.WithError(serr).Debug("close frame not sent")
			}
			return err
		}
		switch f.Header.OpCode {
		case ws.OpClose:
			return c.Send(ws.NewCloseFrame(ws.ParseCloseFrameData(f.Payload)))
		case ws.OpPing:
			err = c.Send(ws.NewPongFrame(f.Payload))
		case ws.OpPong:
		default:
			err = c.Send(ws.NewFrame(f.Header.OpCode, f.Header.Fin, f.Payload))
		}
		if err != nil {
			return err
		}
	}
}

func send(ctx context.Context, addr, host string, messages []string) (replies []string, err error) {
	var nd net.Dialer
	conn, err := nd.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	if host == "" {
		host = addr
	}
	d := ws.Dialer{
		Host:   host,
		Logger: log.G(ctx).WithField("remote", addr),
	}
	c, err := d.Connect(ctx, conn)
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer func() {
		if e := c.Close(); err == nil {
			err = e
		}
	}()

	for _, m := range messages {
		if err := c.Send(ws.NewTextFrame(m)); err != nil {
			return replies, err
		}
		f, err := c.Receive()
		if err != nil {
			return replies, err
		}
		replies = append(replies, string(f.Payload))
	}
	return replies, nil
}
