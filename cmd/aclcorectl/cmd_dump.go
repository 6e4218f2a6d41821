package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump live ACL control-plane state",
}

var dumpTableCmd = &cobra.Command{
	Use:   "table <oid>",
	Short: "Dump one ACL table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		s, err := app.aclCore.DumpTable(o)
		if err != nil {
			return err
		}
		fmt.Print(s)
		return nil
	},
}

var dumpRuleCmd = &cobra.Command{
	Use:   "rule <oid>",
	Short: "Dump one ACL rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		s, err := app.aclCore.DumpRule(o)
		if err != nil {
			return err
		}
		fmt.Print(s)
		return nil
	},
}

var dumpTablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "Dump every ACL table and the rules bound to it",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(app.aclCore.DumpAllTables())
		return nil
	},
}

var dumpCountersCmd = &cobra.Command{
	Use:   "counters",
	Short: "Dump every ACL counter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Print(app.aclCore.DumpCounters())
		return nil
	},
}

func init() {
	dumpCmd.AddCommand(dumpTableCmd, dumpRuleCmd, dumpTablesCmd, dumpCountersCmd)
}
