// aclcorectl is a noun-group CLI over the ACL/UDF control-plane core,
// backed by the in-memory npusim simulator. Like the teacher's newtron CLI,
// write commands preview by default and require -x to execute; unlike
// newtron there is no persistent device behind the session, so "execute"
// means "apply against this process's in-memory simulator" — state does
// not survive the command exiting. That tradeoff is intentional: this tool
// exists to exercise and inspect the control-plane core directly, not to
// manage a long-lived fleet.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
	"github.com/newtron-network/aclcore/pkg/cli"
	"github.com/newtron-network/aclcore/pkg/config"
	"github.com/newtron-network/aclcore/pkg/npusim"
	"github.com/newtron-network/aclcore/pkg/udf"
	"github.com/newtron-network/aclcore/pkg/util"
)

// App holds CLI state shared across all commands.
type App struct {
	executeMode bool
	jsonOutput  bool
	verbose     bool

	cfg     *config.Config
	sim     *npusim.Sim
	udfCore *udf.Core
	aclCore *acl.Core
}

var app = &App{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "aclcorectl",
	Short:         "Inspect and drive the ACL/UDF control-plane core",
	SilenceUsage:  true,
	SilenceErrors: true,
	Long: `aclcorectl is a noun-group CLI over the ACL/UDF control-plane core.

Write commands preview by default — use -x to execute.

  aclcorectl <resource> <action> [args] [-x]

Examples:
  aclcorectl table create --stage ingress --priority 100
  aclcorectl table show 0x...
  aclcorectl rule create --table 0x... --priority 500 --src-ip 10.0.0.1 -x
  aclcorectl udf group create --type generic --length 4 -x`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if app.verbose {
			util.SetLogLevel("debug")
		} else {
			util.SetLogLevel("warn")
		}

		cfg, err := config.Load()
		if err != nil {
			util.Logger.Warnf("could not load config: %v", err)
			cfg = &config.Config{}
		}
		app.cfg = cfg

		app.sim = npusim.New()
		app.udfCore = udf.NewCore(app.sim)
		app.aclCore = acl.NewCore(app.sim, app.udfCore)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "Verbose output")

	for _, cmd := range []*cobra.Command{tableCmd, ruleCmd, counterCmd, rangeCmd, groupCmd, udfCmd} {
		addWriteFlags(cmd)
		addOutputFlags(cmd)
		rootCmd.AddCommand(cmd)
	}
	rootCmd.AddCommand(dumpCmd)
}

func addWriteFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVarP(&app.executeMode, "execute", "x", false, "Execute changes (default is dry-run)")
}

func addOutputFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	if cmd.HasSubCommands() {
		flags = cmd.PersistentFlags()
	}
	flags.BoolVar(&app.jsonOutput, "json", false, "JSON output (not read by any command; output is always plain text)")
}

func printDryRunNotice() {
	if !app.executeMode {
		fmt.Println(cli.Yellow("DRY-RUN: nothing created. Use -x to execute."))
	}
}

func green(s string) string  { return cli.Green(s) }
func yellow(s string) string { return cli.Yellow(s) }
func red(s string) string    { return cli.Red(s) }
