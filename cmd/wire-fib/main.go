package main


import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	sio "wire/io"
)


const ProgramName = "wire-fib"
const ProgramVersion = "0.1.0"


//  - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - - -


type globalFlags struct {
	config string
	log string
	logFormat string
	logLevel string
	verbose int
}

var global globalFlags

// Loaded by the root command before any subcommand runs.
var config Config

var log sio.Logger = sio.NewNopLogger()

var closeLog func () = func () {}


var rootCmd = &cobra.Command{
	Use: ProgramName,
	Short: "Compute fibonacci numbers over typed TCP streams",
	Long: `Run a fibonacci server or query one.

The client sends numbers and the server answers each of them with the number
and its fibonacci value, on the same connection.`,
	Version: ProgramVersion,
	SilenceUsage: true,
	SilenceErrors: true,
	PersistentPreRunE: func (cmd *cobra.Command, args []string) error {
		var err error

		config, err = loadConfig(global.config)
		if err != nil {
			return err
		}

		err = config.applyGlobalFlags(cmd, &global)
		if err != nil {
			return err
		}

		log, closeLog, err = config.Log.newLogger()

		return err
	},
	PersistentPostRun: func (cmd *cobra.Command, args []string) {
		closeLog()
	},
}


func fatal(fstr string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "%s: " + fstr + "\n",
		append([]interface{}{ ProgramName }, args...)...)

	fmt.Fprintf(os.Stderr, "Please type '%s --help' for more " +
		"information\n", os.Args[0])

	os.Exit(1)
}


func main() {
	var flags = rootCmd.PersistentFlags()

	flags.StringVarP(&global.config, "config", "c", "",
		"read the configuration from this YAML file")
	flags.StringVarP(&global.log, "log", "l", "",
		"write the logs in this rotated file instead of stderr")
	flags.StringVar(&global.logFormat, "log-format", "",
		"log line format: text or json")
	flags.StringVar(&global.logLevel, "log-level", "",
		"verbosity by name or value: 0=none, 1=error, 2=warn, " +
		"3=info, 4=debug, 5=trace")
	flags.CountVarP(&global.verbose, "verbose", "v",
		"increase the verbosity level by one, can be repeated")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(clientCmd)

	if err := rootCmd.Execute(); err != nil {
		closeLog()
		fatal("%v", err)
	}
}
