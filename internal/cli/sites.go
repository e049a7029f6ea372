package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/law-makers/catalog/internal/app"
	"github.com/law-makers/catalog/internal/config"
	"github.com/spf13/cobra"
)

func newSitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured sites, their markers and URLs",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.Application) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SITE\tMARKER\tENV\tURLS")
			for _, id := range a.Config.SiteIDs() {
				s, _ := a.Config.Site(id)
				name := id
				if id == a.Config.DefaultSite {
					name += " (default)"
				}
				urls := "-"
				if len(s.URLs) > 0 {
					urls = strings.Join(s.URLs, " ")
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, s.Marker, config.SiteEnvKey(id), urls)
			}
			return tw.Flush()
		}),
	}
}
