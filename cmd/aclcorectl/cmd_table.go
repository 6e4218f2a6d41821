package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
	"github.com/newtron-network/aclcore/pkg/oid"
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Manage ACL tables",
}

var (
	tableStage    string
	tablePriority uint32
	tableSize     uint32
	tableGroup    string
)

var tableCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ACL table",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parseStage(tableStage)
		if err != nil {
			return err
		}
		attrs := []acl.Attribute{
			{ID: acl.AttrTableStage, Value: acl.Value{Kind: acl.KindU32, U32: uint32(stage)}},
			{ID: acl.AttrTablePriority, Value: acl.Value{Kind: acl.KindU32, U32: tablePriority}},
		}
		if tableSize != 0 {
			attrs = append(attrs, acl.Attribute{ID: acl.AttrTableSize, Value: acl.Value{Kind: acl.KindU32, U32: tableSize}})
		}
		if tableGroup != "" {
			g, err := parseOID(tableGroup)
			if err != nil {
				return err
			}
			attrs = append(attrs, acl.Attribute{ID: acl.AttrTableGroupID, Value: acl.Value{Kind: acl.KindOID, OID: g}})
		}

		fmt.Printf("create table: stage=%s priority=%d size=%d group=%s\n", stage, tablePriority, tableSize, tableGroup)
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateTable(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var tableDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete an ACL table",
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
		if err := app.aclCore.DeleteTable(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var tableShowCmd = &cobra.Command{
	Use:   "show <oid>",
	Short: "Show an ACL table",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		t, err := app.aclCore.GetTable(o)
		if err != nil {
			return err
		}
		fmt.Printf("table %v\n  stage: %v\n  priority: %d\n  size: %d\n  rules: %d\n  counters: %d\n  materialized: %v\n",
			t.OID, t.Stage, t.Priority, t.Size, t.RuleCount, t.CounterCount, t.Materialized)
		return nil
	},
}

func init() {
	tableCreateCmd.Flags().StringVar(&tableStage, "stage", "ingress", "Stage (ingress, egress)")
	tableCreateCmd.Flags().Uint32Var(&tablePriority, "priority", 0, "Table priority")
	tableCreateCmd.Flags().Uint32Var(&tableSize, "size", 0, "Table size (0 to defer materialization)")
	tableCreateCmd.Flags().StringVar(&tableGroup, "group", "", "Table group OID")

	tableCmd.AddCommand(tableCreateCmd, tableDeleteCmd, tableShowCmd)
}

func parseStage(s string) (acl.Stage, error) {
	switch s {
	case "ingress":
		return acl.StageIngress, nil
	case "egress":
		return acl.StageEgress, nil
	default:
		return 0, fmt.Errorf("unknown stage %q (want ingress or egress)", s)
	}
}

func parseOID(s string) (oid.OID, error) {
	var v uint64
	if _, err := fmt.Sscanf(s, "0x%x", &v); err != nil {
		if _, err := fmt.Sscanf(s, "%d", &v); err != nil {
			return oid.Null, fmt.Errorf("invalid oid %q", s)
		}
	}
	return oid.OID(v), nil
}

// dash formats a cli.Table cell, substituting "-" for the zero value.
func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
