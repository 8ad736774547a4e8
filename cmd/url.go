package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hunThubSpace/subscope/store"
)

var urlCmd = &cobra.Command{
	Use:   "url",
	Short: "Manage urls of a subdomain",
}

// urlAttributeFlags registers the shared attribute flag set; the same names
// act as update values on add and as filters on list/delete.
func urlAttributeFlags(c *cobra.Command) {
	c.Flags().String("scheme", "", "url scheme, e.g. https")
	c.Flags().String("method", "", "http method")
	c.Flags().String("port", "", "port")
	c.Flags().String("path", "", "path component")
	c.Flags().String("flag", "", "free-form marker")
	c.Flags().String("status-code", "", "http status code")
	c.Flags().String("scope", "", "inscope or outscope")
	c.Flags().String("content-length", "", "response content length")
	c.Flags().String("ip", "", "resolved ip address")
	c.Flags().String("cdn-status", "", "yes or no")
	c.Flags().String("cdn-name", "", "cdn provider name")
	c.Flags().String("title", "", "page title")
	c.Flags().String("webserver", "", "server banner")
	c.Flags().String("webtech", "", "detected technologies")
	c.Flags().String("cname", "", "cname target")
	c.Flags().String("location", "", "redirect location")
}

func urlUpdateFromFlags(cmd *cobra.Command) store.URLUpdate {
	get := func(name string) string {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return store.URLUpdate{
		Scheme:        get("scheme"),
		Method:        get("method"),
		Port:          get("port"),
		Path:          get("path"),
		Flag:          get("flag"),
		StatusCode:    get("status-code"),
		Scope:         get("scope"),
		ContentLength: get("content-length"),
		IPAddress:     get("ip"),
		CDNStatus:     get("cdn-status"),
		CDNName:       get("cdn-name"),
		Title:         get("title"),
		Webserver:     get("webserver"),
		Webtech:       get("webtech"),
		CNAME:         get("cname"),
		Location:      get("location"),
	}
}

func urlFilterFromFlags(cmd *cobra.Command, args []string) store.URLFilter {
	upd := urlUpdateFromFlags(cmd)
	createTime, _ := cmd.Flags().GetString("create-time")
	updateTime, _ := cmd.Flags().GetString("update-time")
	return store.URLFilter{
		URL:           args[0],
		Subdomain:     args[1],
		Domain:        args[2],
		Program:       args[3],
		Scheme:        upd.Scheme,
		Method:        upd.Method,
		Port:          upd.Port,
		Path:          upd.Path,
		Flag:          upd.Flag,
		StatusCode:    upd.StatusCode,
		Scope:         upd.Scope,
		ContentLength: upd.ContentLength,
		IPAddress:     upd.IPAddress,
		CDNStatus:     upd.CDNStatus,
		CDNName:       upd.CDNName,
		Title:         upd.Title,
		Webserver:     upd.Webserver,
		Webtech:       upd.Webtech,
		CNAME:         upd.CNAME,
		Location:      upd.Location,
		CreateTime:    createTime,
		UpdateTime:    updateTime,
	}
}

var urlAddCmd = &cobra.Command{
	Use:   "add <url> <subdomain> <domain> <program>",
	Short: "Add or update a url",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := db.AddURL(args[0], args[1], args[2], args[3], urlUpdateFromFlags(cmd))
		if err != nil {
			return err
		}
		reportUpsert("adding url", result)
		return nil
	},
}

var urlListCmd = &cobra.Command{
	Use:   "list <url> <subdomain> <domain> <program>",
	Short: "List urls, use * for all",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		urls, err := db.ListURLs(urlFilterFromFlags(cmd, args))
		if err != nil {
			return err
		}
		brief, _ := cmd.Flags().GetBool("brief")
		count, _ := cmd.Flags().GetBool("count")
		statsField, _ := cmd.Flags().GetString("stats")
		switch {
		case statsField != "":
			groups, err := store.URLStats(urls, statsField)
			if err != nil {
				return err
			}
			printStats(groups)
		case count:
			printCount(len(urls))
		case brief:
			names := make([]string, len(urls))
			for i, u := range urls {
				names[i] = u.URL
			}
			printBrief(names)
		default:
			return printJSON(urls)
		}
		return nil
	},
}

var urlDeleteCmd = &cobra.Command{
	Use:   "delete <url> <subdomain> <domain> <program>",
	Short: "Delete urls, use * for all",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := db.DeleteURLs(urlFilterFromFlags(cmd, args))
		if err != nil {
			return err
		}
		reportDelete("deleting url", result)
		return nil
	},
}

func init() {
	urlAttributeFlags(urlAddCmd)
	for _, c := range []*cobra.Command{urlListCmd, urlDeleteCmd} {
		urlAttributeFlags(c)
		c.Flags().String("create-time", "", "filter by creation time, e.g. 2024-06 or 2024-01,2024-06")
		c.Flags().String("update-time", "", "filter by update time")
	}
	urlListCmd.Flags().Bool("brief", false, "print urls only")
	urlListCmd.Flags().Bool("count", false, "print the number of matches")
	urlListCmd.Flags().String("stats", "", "group matches by an attribute (scheme, method, port, status_code, scope, webserver, webtech, ...)")

	urlCmd.AddCommand(urlAddCmd)
	urlCmd.AddCommand(urlListCmd)
	urlCmd.AddCommand(urlDeleteCmd)
}
