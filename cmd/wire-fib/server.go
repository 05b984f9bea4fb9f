package main


import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"wire/internal/fib"
	sio "wire/io"
	"wire/net"
)


// ----------------------------------------------------------------------------


var serverFlags struct {
	host string
	port uint16
	readLimit uint64
	acceptTimeout time.Duration
	pidfile string
}

var serverCmd = &cobra.Command{
	Use: "server",
	Short: "Start a fibonacci server",
	Long: `Start a fibonacci server in foreground.
By default, the server listens for connections on every interface, on the tcp
port 8080. It stops on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: func (cmd *cobra.Command, args []string) error {
		config.applyServerFlags(cmd)
		return serverStart(cmd.Context(), &config)
	},
}


func init() {
	var flags = serverCmd.Flags()

	flags.StringVar(&serverFlags.host, "host", "",
		"listen on this host instead of every interface")
	flags.Uint16VarP(&serverFlags.port, "port", "p", DEFAULT_TCP_PORT,
		"listen on this tcp port")
	flags.Uint64Var(&serverFlags.readLimit, "read-limit", 0,
		"largest request payload in bytes")
	flags.DurationVar(&serverFlags.acceptTimeout, "accept-timeout", 0,
		"wake the accept loop up at this interval")
	flags.StringVar(&serverFlags.pidfile, "pidfile", "",
		"write the server pid in this file")
}


// ----------------------------------------------------------------------------


func (this *Config) applyServerFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("host") {
		this.Host = serverFlags.host
	}

	if cmd.Flags().Changed("port") {
		this.Port = serverFlags.port
	}

	if cmd.Flags().Changed("read-limit") {
		this.ReadLimit = serverFlags.readLimit
	}

	if cmd.Flags().Changed("accept-timeout") {
		this.AcceptTimeout = serverFlags.acceptTimeout
	}

	if cmd.Flags().Changed("pidfile") {
		this.Pidfile = serverFlags.pidfile
	}
}

func serverStart(ctx context.Context, config *Config) error {
	var recv *sio.Receiver[net.AcceptedConnection]
	var readLimit sio.SizeLimit
	var acceptor *net.Acceptor
	var cancel context.CancelFunc
	var metrics *net.Metrics
	var removePidfile func ()
	var err error

	if ctx == nil {
		ctx = context.Background()
	}

	if config.Pidfile != "" {
		removePidfile, err = sio.CreatePidfile(config.Pidfile)
		if err != nil {
			return err
		}

		defer removePidfile()
	}

	metrics, err = net.NewMetrics(prometheus.DefaultRegisterer,
		"wire_fib")
	if err != nil {
		return err
	}

	recv, acceptor, err = net.ListenWith(config.Host, config.Port,
		&net.ListenOptions{
			AcceptTimeout: config.AcceptTimeout,
			Log: log.WithGlobalContext("listen"),
			Metrics: metrics,
		})
	if err != nil {
		return err
	}

	defer acceptor.Wait()
	defer acceptor.Close()

	ctx, cancel = signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go func () {
		<-ctx.Done()
		log.Info("stop on %v", log.Emph(1, context.Cause(ctx)))
		acceptor.Close()
	}()

	if config.ReadLimit > 0 {
		readLimit = sio.Bounded(config.ReadLimit)
	}

	log.Info("serve on %s", log.Emph(0, acceptor.Addr()))

	return fib.Serve(ctx, recv, &fib.ServeOptions{
		ReadLimit: readLimit,
		Log: log.WithGlobalContext("fib"),
		Metrics: metrics,
	})
}
