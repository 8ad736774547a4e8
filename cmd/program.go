package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var programCmd = &cobra.Command{
	Use:   "program",
	Short: "Manage programs",
}

var programAddCmd = &cobra.Command{
	Use:   "add <program>",
	Short: "Add a program",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := db.AddProgram(args[0])
		if err != nil {
			return err
		}
		reportUpsert("adding program", result)
		return nil
	},
}

var programListCmd = &cobra.Command{
	Use:   "list <program>",
	Short: "List programs, use * for all",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		programs, err := db.ListPrograms(args[0])
		if err != nil {
			return err
		}
		brief, _ := cmd.Flags().GetBool("brief")
		count, _ := cmd.Flags().GetBool("count")
		switch {
		case count:
			printCount(len(programs))
		case brief:
			names := make([]string, len(programs))
			for i, p := range programs {
				names[i] = p.Name
			}
			printBrief(names)
		default:
			return printJSON(programs)
		}
		return nil
	},
}

var programDeleteCmd = &cobra.Command{
	Use:   "delete <program>",
	Short: "Delete programs, use * for all",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cascade, _ := cmd.Flags().GetBool("all")
		result, err := db.DeleteProgram(args[0], cascade)
		if err != nil {
			return err
		}
		if cascade && result.Deleted > 0 {
			logInfo("deleting program", fmt.Sprintf(
				"removed %d domains, %d subdomains, %d urls, %d ips",
				result.Domains, result.Subdomains, result.URLs, result.IPs,
			))
		}
		reportDelete("deleting program", result)
		return nil
	},
}

func init() {
	programListCmd.Flags().Bool("brief", false, "print program names only")
	programListCmd.Flags().Bool("count", false, "print the number of matches")
	programDeleteCmd.Flags().Bool("all", false, "also delete every child record")

	programCmd.AddCommand(programAddCmd)
	programCmd.AddCommand(programListCmd)
	programCmd.AddCommand(programDeleteCmd)
}
