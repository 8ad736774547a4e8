package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunThubSpace/subscope/store"
)

var subdomainCmd = &cobra.Command{
	Use:   "subdomain",
	Short: "Manage subdomains of a domain",
}

var subdomainAddCmd = &cobra.Command{
	Use:   "add <subdomain|file> <domain> <program>",
	Short: "Add one subdomain, or every subdomain listed in a file",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd := store.SubdomainUpdate{}
		upd.Sources, _ = cmd.Flags().GetStringSlice("source")
		upd.Unsources, _ = cmd.Flags().GetStringSlice("unsource")
		upd.Scope, _ = cmd.Flags().GetString("scope")
		upd.Resolved, _ = cmd.Flags().GetString("resolved")
		upd.IPAddress, _ = cmd.Flags().GetString("ip")
		upd.ClearIP, _ = cmd.Flags().GetBool("unip")
		upd.CDNStatus, _ = cmd.Flags().GetString("cdn-status")
		upd.CDNName, _ = cmd.Flags().GetString("cdn-name")
		upd.ClearCDNName, _ = cmd.Flags().GetBool("uncdn-name")

		results, err := db.AddSubdomains(args[0], args[1], args[2], upd)
		if err != nil {
			return err
		}
		if failed := reportUpserts("adding subdomain", results); failed > 0 {
			return fmt.Errorf("%d of %d subdomains failed", failed, len(results))
		}
		return nil
	},
}

var subdomainListCmd = &cobra.Command{
	Use:   "list <subdomain> <domain> <program>",
	Short: "List subdomains, use * for all",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.SubdomainFilter{Subdomain: args[0], Domain: args[1], Program: args[2]}
		f.Sources, _ = cmd.Flags().GetStringSlice("source")
		f.SourceOnly, _ = cmd.Flags().GetBool("source-only")
		f.Scope, _ = cmd.Flags().GetString("scope")
		f.Resolved, _ = cmd.Flags().GetString("resolved")
		f.CDNStatus, _ = cmd.Flags().GetString("cdn-status")
		f.IPAddress, _ = cmd.Flags().GetString("ip")
		f.CDNName, _ = cmd.Flags().GetString("cdn-name")
		f.CreateTime, _ = cmd.Flags().GetString("create-time")
		f.UpdateTime, _ = cmd.Flags().GetString("update-time")

		subdomains, err := db.ListSubdomains(f)
		if err != nil {
			return err
		}
		brief, _ := cmd.Flags().GetBool("brief")
		count, _ := cmd.Flags().GetBool("count")
		statsField, _ := cmd.Flags().GetString("stats")
		switch {
		case statsField != "":
			groups, err := store.SubdomainStats(subdomains, statsField)
			if err != nil {
				return err
			}
			printStats(groups)
		case count:
			printCount(len(subdomains))
		case brief:
			names := make([]string, len(subdomains))
			for i, s := range subdomains {
				names[i] = s.Subdomain
			}
			printBrief(names)
		default:
			return printJSON(subdomains)
		}
		return nil
	},
}

var subdomainDeleteCmd = &cobra.Command{
	Use:   "delete <subdomain> <domain> <program>",
	Short: "Delete subdomains and their urls, use * for all",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.SubdomainFilter{Subdomain: args[0], Domain: args[1], Program: args[2]}
		f.Sources, _ = cmd.Flags().GetStringSlice("source")
		f.Scope, _ = cmd.Flags().GetString("scope")
		f.Resolved, _ = cmd.Flags().GetString("resolved")
		f.CDNStatus, _ = cmd.Flags().GetString("cdn-status")
		f.IPAddress, _ = cmd.Flags().GetString("ip")
		f.CDNName, _ = cmd.Flags().GetString("cdn-name")
		f.CreateTime, _ = cmd.Flags().GetString("create-time")
		f.UpdateTime, _ = cmd.Flags().GetString("update-time")

		result, err := db.DeleteSubdomains(f)
		if err != nil {
			return err
		}
		if result.URLs > 0 {
			logInfo("deleting subdomain", fmt.Sprintf("removed %d urls", result.URLs))
		}
		reportDelete("deleting subdomain", result)
		return nil
	},
}

func init() {
	subdomainAddCmd.Flags().StringSlice("source", nil, "discovery source to record (repeatable)")
	subdomainAddCmd.Flags().StringSlice("unsource", nil, "discovery source to remove (repeatable)")
	subdomainAddCmd.Flags().String("scope", "", "inscope or outscope")
	subdomainAddCmd.Flags().String("resolved", "", "yes or no")
	subdomainAddCmd.Flags().String("ip", "", "resolved ip address")
	subdomainAddCmd.Flags().Bool("unip", false, "clear the resolved ip address")
	subdomainAddCmd.Flags().String("cdn-status", "", "yes or no")
	subdomainAddCmd.Flags().String("cdn-name", "", "cdn provider name")
	subdomainAddCmd.Flags().Bool("uncdn-name", false, "clear the cdn provider name")

	for _, c := range []*cobra.Command{subdomainListCmd, subdomainDeleteCmd} {
		c.Flags().StringSlice("source", nil, "filter by discovery source (repeatable)")
		c.Flags().String("scope", "", "filter by scope")
		c.Flags().String("resolved", "", "filter by resolved status")
		c.Flags().String("cdn-status", "", "filter by cdn status")
		c.Flags().String("ip", "", "filter by resolved ip address")
		c.Flags().String("cdn-name", "", "filter by cdn provider")
		c.Flags().String("create-time", "", "filter by creation time, e.g. 2024-06 or 2024-01,2024-06")
		c.Flags().String("update-time", "", "filter by update time")
	}
	subdomainListCmd.Flags().Bool("source-only", false, "match subdomains whose only source is the given one")
	subdomainListCmd.Flags().Bool("brief", false, "print subdomain names only")
	subdomainListCmd.Flags().Bool("count", false, "print the number of matches")
	subdomainListCmd.Flags().String("stats", "", "group matches by an attribute (source, scope, resolved, ip_address, cdn_status, cdn_name, domain, program)")

	subdomainCmd.AddCommand(subdomainAddCmd)
	subdomainCmd.AddCommand(subdomainListCmd)
	subdomainCmd.AddCommand(subdomainDeleteCmd)
}
