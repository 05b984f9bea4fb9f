package main


import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"wire/internal/fib"
)


// ----------------------------------------------------------------------------


var clientFlags struct {
	host string
	port uint16
	timeout time.Duration
}

var clientCmd = &cobra.Command{
	Use: "client [<n>...]",
	Short: "Query a fibonacci server",
	Long: `Send numbers to a fibonacci server and print its answers.
Without operand, send the numbers from 0 to 9.`,
	RunE: func (cmd *cobra.Command, args []string) error {
		var xs []uint64
		var err error

		xs, err = parseNumbers(args)
		if err != nil {
			return err
		}

		config.applyClientFlags(cmd)

		return clientStart(&config, xs)
	},
}


func init() {
	var flags = clientCmd.Flags()

	flags.StringVar(&clientFlags.host, "host", "localhost",
		"connect to this host")
	flags.Uint16VarP(&clientFlags.port, "port", "p", DEFAULT_TCP_PORT,
		"connect to this tcp port")
	flags.DurationVar(&clientFlags.timeout, "timeout", 10 * time.Second,
		"give up the whole query after this duration")
}


// ----------------------------------------------------------------------------


func parseNumbers(args []string) ([]uint64, error) {
	var xs []uint64
	var arg string
	var x uint64
	var err error

	if len(args) == 0 {
		for x = 0; x < 10; x++ {
			xs = append(xs, x)
		}

		return xs, nil
	}

	for _, arg = range args {
		x, err = strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number: '%s'", arg)
		}

		xs = append(xs, x)
	}

	return xs, nil
}

func (this *Config) applyClientFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("host") || (this.Host == "") {
		this.Host = clientFlags.host
	}

	if cmd.Flags().Changed("port") {
		this.Port = clientFlags.port
	}
}

func clientStart(config *Config, xs []uint64) error {
	var cancel context.CancelFunc
	var ctx context.Context
	var pairs []fib.Pair
	var pair fib.Pair
	var err error

	ctx, cancel = context.WithTimeout(context.Background(),
		clientFlags.timeout)
	defer cancel()

	pairs, err = fib.QueryWith(config.Host, config.Port, xs,
		&fib.QueryOptions{
			Context: ctx,
			Log: log.WithGlobalContext("fib"),
		})

	for _, pair = range pairs {
		fmt.Printf("%d -> %d\n", pair.X, pair.Fx)
	}

	return err
}
