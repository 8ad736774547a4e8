package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hunThubSpace/subscope/store"
)

var domainCmd = &cobra.Command{
	Use:   "domain",
	Short: "Manage domains of a program",
}

var domainAddCmd = &cobra.Command{
	Use:   "add <domain|file> <program>",
	Short: "Add one domain, or every domain listed in a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		results, err := db.AddDomains(args[0], args[1], scope)
		if err != nil {
			return err
		}
		if failed := reportUpserts("adding domain", results); failed > 0 {
			return fmt.Errorf("%d of %d domains failed", failed, len(results))
		}
		return nil
	},
}

var domainListCmd = &cobra.Command{
	Use:   "list <domain> <program>",
	Short: "List domains, use * for all",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		domains, err := db.ListDomains(store.DomainFilter{
			Domain:  args[0],
			Program: args[1],
			Scope:   scope,
		})
		if err != nil {
			return err
		}
		brief, _ := cmd.Flags().GetBool("brief")
		count, _ := cmd.Flags().GetBool("count")
		switch {
		case count:
			printCount(len(domains))
		case brief:
			names := make([]string, len(domains))
			for i, d := range domains {
				names[i] = d.Domain
			}
			printBrief(names)
		default:
			return printJSON(domains)
		}
		return nil
	},
}

var domainDeleteCmd = &cobra.Command{
	Use:   "delete <domain> <program>",
	Short: "Delete domains and their subdomains and urls, use * for all",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		scope, _ := cmd.Flags().GetString("scope")
		result, err := db.DeleteDomains(store.DomainFilter{
			Domain:  args[0],
			Program: args[1],
			Scope:   scope,
		})
		if err != nil {
			return err
		}
		if result.Subdomains > 0 || result.URLs > 0 {
			logInfo("deleting domain", fmt.Sprintf("removed %d subdomains, %d urls", result.Subdomains, result.URLs))
		}
		reportDelete("deleting domain", result)
		return nil
	},
}

func init() {
	domainAddCmd.Flags().String("scope", "", "inscope or outscope (default inscope)")
	domainListCmd.Flags().String("scope", "", "filter by scope")
	domainListCmd.Flags().Bool("brief", false, "print domain names only")
	domainListCmd.Flags().Bool("count", false, "print the number of matches")
	domainDeleteCmd.Flags().String("scope", "", "filter by scope")

	domainCmd.AddCommand(domainAddCmd)
	domainCmd.AddCommand(domainListCmd)
	domainCmd.AddCommand(domainDeleteCmd)
}
