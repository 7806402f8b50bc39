// Command netcode-server runs a standalone authoritative game server over
// examples/streamtransport's TCP transport.
//
// Configuration layers in this order, later layers overriding earlier ones:
// built-in defaults, an optional HuJSON config file (--config), then CLI
// flags.
//
// Usage:
//
//	netcode-server [--config path] [--listen addr] [--tick-rate hz]
//	               [--batch-interval-ms ms] [--connection-limit n]
//	               [--send-buffer-size bytes]
package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/duskwave-games/netcode/examples/streamtransport"
	"github.com/duskwave-games/netcode/internal/netlog"
	"github.com/duskwave-games/netcode/server"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "netcode-server:", err)
		os.Exit(1)
	}
}

func run() error {
	fs := flag.NewFlagSet("netcode-server", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: netcode-server [flags]\n\n")
		fs.PrintDefaults()
	}

	configPath := fs.String("config", "", "path to a HuJSON config file")
	listen := fs.String("listen", "", "override listen_address from the config file")
	tickRate := fs.Int("tick-rate", 0, "override tick_rate from the config file")
	batchMS := fs.Int("batch-interval-ms", 0, "override batch_interval_ms from the config file")
	connLimit := fs.Int("connection-limit", 0, "override connection_limit from the config file")
	sendBuf := fs.Int("send-buffer-size", 0, "override send_buffer_size from the config file")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return err
	}

	fc, err := loadFileConfig(*configPath)
	if err != nil {
		return err
	}
	if *listen != "" {
		fc.ListenAddress = *listen
	}
	if *tickRate != 0 {
		fc.TickRate = *tickRate
	}
	if *batchMS != 0 {
		fc.BatchIntervalMS = *batchMS
	}
	if *connLimit != 0 {
		fc.ConnectionLimit = *connLimit
	}
	if *sendBuf != 0 {
		fc.SendBufferSize = *sendBuf
	}

	logger := netlog.Default()

	tr := streamtransport.NewTCP(fc.ListenAddress)
	store := newDemoStore()

	s := server.New(tr, store, logger,
		server.WithTickRate(fc.TickRate),
		server.WithBatchInterval(fc.batchInterval()),
		server.WithConnectionLimit(fc.ConnectionLimit),
		server.WithSendBufferSize(fc.SendBufferSize),
	)

	registerDemoHandlers(s)

	if err := s.Start(); err != nil {
		return fmt.Errorf("starting server: %w", err)
	}
	logger.Info("server listening", "address", fc.ListenAddress)

	tickInterval := time.Second / time.Duration(fc.TickRate)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	for now := range ticker.C {
		s.Tick(now)
	}
	return nil
}
