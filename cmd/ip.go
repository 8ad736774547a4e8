package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hunThubSpace/subscope/store"
)

var ipCmd = &cobra.Command{
	Use:   "ip",
	Short: "Manage the per-program ip ledger",
}

var ipAddCmd = &cobra.Command{
	Use:   "add <ip> <program>",
	Short: "Add or update an ip",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		upd := store.IPUpdate{}
		upd.CIDR, _ = cmd.Flags().GetString("cidr")
		upd.ASN, _ = cmd.Flags().GetString("asn")
		upd.Ports, _ = cmd.Flags().GetStringSlice("port")
		upd.Service, _ = cmd.Flags().GetString("service")
		upd.CVEs, _ = cmd.Flags().GetStringSlice("cves")

		result, err := db.AddIP(args[0], args[1], upd)
		if err != nil {
			return err
		}
		reportUpsert("adding ip", result)
		return nil
	},
}

var ipListCmd = &cobra.Command{
	Use:   "list <ip> <program>",
	Short: "List ips, use * for all",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.IPFilter{IP: args[0], Program: args[1]}
		f.CIDR, _ = cmd.Flags().GetString("cidr")
		f.ASN, _ = cmd.Flags().GetString("asn")
		f.Port, _ = cmd.Flags().GetString("port")
		f.Service, _ = cmd.Flags().GetString("service")
		f.CVEs, _ = cmd.Flags().GetString("cves")
		f.CreateTime, _ = cmd.Flags().GetString("create-time")
		f.UpdateTime, _ = cmd.Flags().GetString("update-time")

		records, err := db.ListIPs(f)
		if err != nil {
			return err
		}
		brief, _ := cmd.Flags().GetBool("brief")
		count, _ := cmd.Flags().GetBool("count")
		statsField, _ := cmd.Flags().GetString("stats")
		switch {
		case statsField != "":
			groups, err := store.IPStats(records, statsField)
			if err != nil {
				return err
			}
			printStats(groups)
		case count:
			printCount(len(records))
		case brief:
			// The same address can sit in several programs.
			seen := make(map[string]struct{}, len(records))
			var addrs []string
			for _, r := range records {
				if _, ok := seen[r.IP]; ok {
					continue
				}
				seen[r.IP] = struct{}{}
				addrs = append(addrs, r.IP)
			}
			printBrief(addrs)
		default:
			return printJSON(records)
		}
		return nil
	},
}

var ipDeleteCmd = &cobra.Command{
	Use:   "delete <ip> <program>",
	Short: "Delete ips, use * for all",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f := store.IPFilter{IP: args[0], Program: args[1]}
		f.CIDR, _ = cmd.Flags().GetString("cidr")
		f.ASN, _ = cmd.Flags().GetString("asn")
		f.Port, _ = cmd.Flags().GetString("port")
		f.Service, _ = cmd.Flags().GetString("service")
		f.CVEs, _ = cmd.Flags().GetString("cves")
		f.CreateTime, _ = cmd.Flags().GetString("create-time")
		f.UpdateTime, _ = cmd.Flags().GetString("update-time")

		result, err := db.DeleteIPs(f)
		if err != nil {
			return err
		}
		reportDelete("deleting ip", result)
		return nil
	},
}

func init() {
	ipAddCmd.Flags().String("cidr", "", "cidr block the address belongs to")
	ipAddCmd.Flags().String("asn", "", "autonomous system number")
	ipAddCmd.Flags().StringSlice("port", nil, "open port (repeatable, replaces the stored list)")
	ipAddCmd.Flags().String("service", "", "service banner")
	ipAddCmd.Flags().StringSlice("cves", nil, "known cve id (repeatable)")

	for _, c := range []*cobra.Command{ipListCmd, ipDeleteCmd} {
		c.Flags().String("cidr", "", "filter by cidr")
		c.Flags().String("asn", "", "filter by asn")
		c.Flags().String("port", "", "filter by open port")
		c.Flags().String("service", "", "filter by service")
		c.Flags().String("cves", "", "filter by cve substring")
		c.Flags().String("create-time", "", "filter by creation time, e.g. 2024-06 or 2024-01,2024-06")
		c.Flags().String("update-time", "", "filter by update time")
	}
	ipListCmd.Flags().Bool("brief", false, "print unique addresses only")
	ipListCmd.Flags().Bool("count", false, "print the number of matches")
	ipListCmd.Flags().String("stats", "", "group matches by an attribute (cidr, asn, port, service, cves, program)")

	ipCmd.AddCommand(ipAddCmd)
	ipCmd.AddCommand(ipListCmd)
	ipCmd.AddCommand(ipDeleteCmd)
}
