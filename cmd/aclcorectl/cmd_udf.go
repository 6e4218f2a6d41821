package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/udf"
)

var udfCmd = &cobra.Command{
	Use:   "udf",
	Short: "Manage UDF groups, UDFs and UDF matches",
}

var udfGroupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage UDF groups",
}

var (
	udfGroupType   string
	udfGroupLength uint16
)

var udfGroupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a UDF group",
	RunE: func(cmd *cobra.Command, args []string) error {
		var t udf.GroupType
		switch udfGroupType {
		case "generic":
			t = udf.GroupGeneric
		case "hash":
			t = udf.GroupHash
		default:
			return fmt.Errorf("unknown udf group type %q", udfGroupType)
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.udfCore.CreateGroup(t, udfGroupLength)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var udfGroupDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete a UDF group",
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
		if err := app.udfCore.DeleteGroup(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var (
	matchL2Type   uint32
	matchL3Type   uint32
	matchGREType  uint32
	matchPriority uint32
)

var udfCreateMatchCmd = &cobra.Command{
	Use:   "match-create",
	Short: "Create a UDF match",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.udfCore.CreateMatch(matchL2Type, matchL3Type, matchGREType, matchPriority)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var (
	udfGroup  string
	udfMatch  string
	udfBase   string
	udfOffset uint16
)

var udfCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a UDF bound to a group and match",
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := parseOID(udfGroup)
		if err != nil {
			return err
		}
		m, err := parseOID(udfMatch)
		if err != nil {
			return err
		}
		var base udf.Base
		switch udfBase {
		case "l2":
			base = udf.BaseL2
		case "l3":
			base = udf.BaseL3
		case "l4":
			base = udf.BaseL4
		default:
			return fmt.Errorf("unknown base %q (want l2, l3 or l4)", udfBase)
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.udfCore.CreateUDF(g, m, base, udfOffset, nil)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

func init() {
	udfGroupCreateCmd.Flags().StringVar(&udfGroupType, "type", "generic", "Group type (generic, hash)")
	udfGroupCreateCmd.Flags().Uint16Var(&udfGroupLength, "length", 2, "UDF length in bytes")
	udfGroupCmd.AddCommand(udfGroupCreateCmd, udfGroupDeleteCmd)

	udfCreateCmd.Flags().StringVar(&udfGroup, "group", "", "UDF group OID")
	udfCreateCmd.Flags().StringVar(&udfMatch, "match", "", "UDF match OID")
	udfCreateCmd.Flags().StringVar(&udfBase, "base", "l2", "Offset base (l2, l3, l4)")
	udfCreateCmd.Flags().Uint16Var(&udfOffset, "offset", 0, "Byte offset from base")

	udfCreateMatchCmd.Flags().Uint32Var(&matchL2Type, "l2-type", 0, "L2 ethertype to match")
	udfCreateMatchCmd.Flags().Uint32Var(&matchL3Type, "l3-type", 0, "L3 protocol to match")
	udfCreateMatchCmd.Flags().Uint32Var(&matchGREType, "gre-type", 0, "GRE protocol type to match")
	udfCreateMatchCmd.Flags().Uint32Var(&matchPriority, "priority", 0, "Match priority")

	udfCmd.AddCommand(udfGroupCmd, udfCreateCmd, udfCreateMatchCmd)
}
