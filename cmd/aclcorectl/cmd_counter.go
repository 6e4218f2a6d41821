package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
)

var counterCmd = &cobra.Command{
	Use:   "counter",
	Short: "Manage ACL counters",
}

var (
	counterTable   string
	counterPackets bool
	counterBytes   bool
)

var counterCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ACL counter",
	RunE: func(cmd *cobra.Command, args []string) error {
		if counterTable == "" {
			return fmt.Errorf("--table is required")
		}
		t, err := parseOID(counterTable)
		if err != nil {
			return err
		}
		attrs := []acl.Attribute{
			{ID: acl.AttrCounterTableID, Value: acl.Value{Kind: acl.KindOID, OID: t}},
		}
		if counterPackets {
			attrs = append(attrs, acl.Attribute{ID: acl.AttrCounterEnablePacketCount, Value: acl.Value{Kind: acl.KindBool, Bool: true}})
		}
		if counterBytes {
			attrs = append(attrs, acl.Attribute{ID: acl.AttrCounterEnableByteCount, Value: acl.Value{Kind: acl.KindBool, Bool: true}})
		}

		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateCounter(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var counterDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete an ACL counter",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		if err := app.aclCore.DeleteCounter(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var counterShowCmd = &cobra.Command{
	Use:   "show <oid>",
	Short: "Show an ACL counter's packet/byte values",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		pkts, pErr := app.aclCore.GetCounter(o, acl.AttrCounterPackets)
		bytes, bErr := app.aclCore.GetCounter(o, acl.AttrCounterBytes)
		fmt.Printf("counter %v\n", o)
		if pErr == nil {
			fmt.Printf("  packets: %d\n", pkts)
		}
		if bErr == nil {
			fmt.Printf("  bytes: %d\n", bytes)
		}
		if pErr != nil && bErr != nil {
			return pErr
		}
		return nil
	},
}

func init() {
	counterCreateCmd.Flags().StringVar(&counterTable, "table", "", "Owning table OID")
	counterCreateCmd.Flags().BoolVar(&counterPackets, "packets", false, "Enable packet counting")
	counterCreateCmd.Flags().BoolVar(&counterBytes, "bytes", false, "Enable byte counting")

	counterCmd.AddCommand(counterCreateCmd, counterDeleteCmd, counterShowCmd)
}
