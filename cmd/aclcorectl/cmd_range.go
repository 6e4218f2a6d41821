package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
)

var rangeCmd = &cobra.Command{
	Use:   "range",
	Short: "Manage ACL range objects",
}

var (
	rangeType string
	rangeMin  uint32
	rangeMax  uint32
)

var rangeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ACL range object",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := parseRangeType(rangeType)
		if err != nil {
			return err
		}
		attrs := []acl.Attribute{
			{ID: acl.AttrRangeType, Value: acl.Value{Kind: acl.KindS32, S32: int32(rt)}},
			{ID: acl.AttrRangeMin, Value: acl.Value{Kind: acl.KindU32, U32: rangeMin}},
			{ID: acl.AttrRangeMax, Value: acl.Value{Kind: acl.KindU32, U32: rangeMax}},
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateRange(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var rangeDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete an ACL range object",
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
		if err := app.aclCore.DeleteRange(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var rangeShowCmd = &cobra.Command{
	Use:   "show <oid>",
	Short: "Show an ACL range object",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		r, err := app.aclCore.GetRange(o)
		if err != nil {
			return err
		}
		fmt.Printf("range %v\n  type: %v\n  min: %d\n  max: %d\n  ref_count: %d\n", r.OID, r.Type, r.Min, r.Max, r.RefCount)
		return nil
	},
}

func init() {
	rangeCreateCmd.Flags().StringVar(&rangeType, "type", "packet-length", "Range type (packet-length, src-l4-port, dst-l4-port, outer-vlan)")
	rangeCreateCmd.Flags().Uint32Var(&rangeMin, "min", 0, "Range minimum")
	rangeCreateCmd.Flags().Uint32Var(&rangeMax, "max", 0, "Range maximum")

	rangeCmd.AddCommand(rangeCreateCmd, rangeDeleteCmd, rangeShowCmd)
}

func parseRangeType(s string) (acl.RangeType, error) {
	switch s {
	case "packet-length":
		return acl.RangePacketLength, nil
	case "src-l4-port":
		return acl.RangeSrcL4PortRange, nil
	case "dst-l4-port":
		return acl.RangeDstL4PortRange, nil
	case "outer-vlan":
		return acl.RangeOuterVlan, nil
	default:
		return 0, fmt.Errorf("unknown range type %q", s)
	}
}
