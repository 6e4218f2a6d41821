package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newtron-network/aclcore/pkg/acl"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage ACL table groups",
}

var (
	groupStage string
	groupType  int32
)

var groupCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an ACL table group",
	RunE: func(cmd *cobra.Command, args []string) error {
		stage, err := parseStage(groupStage)
		if err != nil {
			return err
		}
		attrs := []acl.Attribute{
			{ID: acl.AttrTableGroupStage, Value: acl.Value{Kind: acl.KindU32, U32: uint32(stage)}},
			{ID: acl.AttrTableGroupType, Value: acl.Value{Kind: acl.KindS32, S32: groupType}},
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateTableGroup(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <oid>",
	Short: "Delete an ACL table group",
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
		if err := app.aclCore.DeleteTableGroup(o); err != nil {
			return err
		}
		fmt.Println(green("deleted"))
		return nil
	},
}

var groupShowCmd = &cobra.Command{
	Use:   "show <oid>",
	Short: "Show an ACL table group",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		o, err := parseOID(args[0])
		if err != nil {
			return err
		}
		g, err := app.aclCore.GetTableGroup(o)
		if err != nil {
			return err
		}
		fmt.Printf("group %v\n  stage: %v\n  members: %d\n", g.OID, g.Stage, len(g.MemberList))
		return nil
	},
}

var (
	memberGroup   string
	memberTable   string
	memberPrio    uint32
)

var groupAddMemberCmd = &cobra.Command{
	Use:   "add-member",
	Short: "Bind a table into a group at a priority",
	RunE: func(cmd *cobra.Command, args []string) error {
		if memberGroup == "" || memberTable == "" {
			return fmt.Errorf("--group and --table are required")
		}
		g, err := parseOID(memberGroup)
		if err != nil {
			return err
		}
		t, err := parseOID(memberTable)
		if err != nil {
			return err
		}
		attrs := []acl.Attribute{
			{ID: acl.AttrTableGroupMemberGroupID, Value: acl.Value{Kind: acl.KindOID, OID: g}},
			{ID: acl.AttrTableGroupMemberTableID, Value: acl.Value{Kind: acl.KindOID, OID: t}},
			{ID: acl.AttrTableGroupMemberPriority, Value: acl.Value{Kind: acl.KindU32, U32: memberPrio}},
		}
		if !app.executeMode {
			printDryRunNotice()
			return nil
		}
		o, err := app.aclCore.CreateTableGroupMember(attrs)
		if err != nil {
			return err
		}
		fmt.Println(green(fmt.Sprintf("created %v", o)))
		return nil
	},
}

func init() {
	groupCreateCmd.Flags().StringVar(&groupStage, "stage", "ingress", "Stage (ingress, egress)")
	groupCreateCmd.Flags().Int32Var(&groupType, "type", 0, "Group type (NPU-defined)")

	groupAddMemberCmd.Flags().StringVar(&memberGroup, "group", "", "Group OID")
	groupAddMemberCmd.Flags().StringVar(&memberTable, "table", "", "Table OID")
	groupAddMemberCmd.Flags().Uint32Var(&memberPrio, "priority", 0, "Member priority (overwrites the table's own priority)")

	groupCmd.AddCommand(groupCreateCmd, groupDeleteCmd, groupShowCmd, groupAddMemberCmd)
}
