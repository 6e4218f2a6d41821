package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
)

var ruleCmd = &cobra.Command{
	Use:   "rule",
	Short: "Manage ACL rules",
}

var (
	ruleTable    string
	rulePriority uint32
	ruleSrcIP    string
	ruleCounter  string
	ruleAction   string
)

var ruleCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ACL rule",
	RunE: func(cmd *cobra.Command, args []string) error {
		if ruleTable == "" {
			return fmt.Errorf("--table is required")
		}
		tableOID, err := parseOID(ruleTable)
		if err != nil {
			return err
		}

		attrs := []acl.Attribute{
			{ID: acl.AttrRuleTableID, Value: acl.Value{Kind: acl.KindOID, OID: tableOID}},
			{ID: acl.AttrRulePriority, Value: acl.Value{Kind: acl.KindU32, U32: rulePriority}},
		}
		if ruleSrcIP != "" {
			ip := net.ParseIP(ruleSrcIP).To4()
			if ip == nil {
				return fmt.Errorf("invalid --src-ip %q (expect IPv4)", ruleSrcIP)
			}
			var v acl.Value
			v.Kind = acl.KindIPv4
			copy(v.IPv4[:], ip)
			attrs = append(attrs, acl.Attribute{ID: acl.AttrRuleFieldSrcIP, Value: v})
		}
		if ruleCounter != "" {
			c, err := parseOID(ruleCounter)
			if err != nil {
				return err
			}
			attrs = append(attrs, acl.Attribute{ID: acl.AttrRuleActionCounter, Value: acl.Value{Kind: acl.KindOID, OID: c}})
		}
		if ruleAction != "" {
			s, err := parsePacketAction(ruleAction)
			if err != nil {
				return err
			}
			attrs = append(attrs, acl.Attribute{ID: acl.AttrRuleActionPacketAction, Value: acl.Value{Kind: acl.KindS32, S32: s}})
		}

		fmt.Printf("create rule: table=%v priority=%d\n", tableOID, rulePriority)
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateRule(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var ruleDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete an ACL rule",
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
		if err := app.aclCore.DeleteRule(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var ruleShowCmd = &cobra.Command{
	Use:   "show <oid>",
	Short: "Show an ACL rule",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		r, err := app.aclCore.GetRule(o)
		if err != nil {
			return err
		}
		fmt.Printf("rule %v\n  table: %v\n  priority: %d\n  admin_state: %v\n  filters: %d\n  actions: %d\n  counter: %v\n",
			r.OID, r.TableOID, r.Priority, r.AdminState, len(r.FilterList), len(r.ActionList), r.CounterOID)
		return nil
	},
}

var ruleSetPriorityCmd = &cobra.Command{
	Use:   "set-priority <oid> <priority>",
	Short: "Change a rule's priority via the delta engine",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		var p uint32
		if _, err := fmt.Sscanf(args[1], "%d", &p); err != nil {
			return fmt.Errorf("invalid priority %q", args[1])
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		if err := app.aclCore.SetRule(o, acl.Attribute{ID: acl.AttrRulePriority, Value: acl.Value{Kind: acl.KindU32, U32: p}}); err != nil {
			return err
		}
		fmt.Println(green("updated"))
		return nil
	},
}

func init() {
	ruleCreateCmd.Flags().StringVar(&ruleTable, "table", "", "Owning table OID")
	ruleCreateCmd.Flags().Uint32Var(&rulePriority, "priority", 0, "Rule priority")
	ruleCreateCmd.Flags().StringVar(&ruleSrcIP, "src-ip", "", "Source IPv4 to match")
	ruleCreateCmd.Flags().StringVar(&ruleCounter, "counter", "", "Counter OID to attach")
	ruleCreateCmd.Flags().StringVar(&ruleAction, "action", "", "Packet action (forward, drop)")

	ruleCmd.AddCommand(ruleCreateCmd, ruleDeleteCmd, ruleShowCmd, ruleSetPriorityCmd)
}

func parsePacketAction(s string) (int32, error) {
	switch s {
	case "forward":
		return 0, nil
	case "drop":
		return 1, nil
	default:
		return 0, fmt.Errorf("unknown action %q (want forward or drop)", s)
	}
}
