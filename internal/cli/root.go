package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/law-makers/catalog/internal/app"
	"github.com/law-makers/catalog/internal/config"
	"github.com/law-makers/catalog/internal/ui"
	"github.com/spf13/cobra"
)

// Version is set at build time
var Version = "0.1.0"

// NewRootCmd builds the catalog command tree. opts are passed to app.New
// for every invocation.
func NewRootCmd(opts ...app.Option) *cobra.Command {
	root := &cobra.Command{
		Use:   "catalog [site...]",
		Short: "Scrape product listings from e-commerce catalog pages",
		Long: `Catalog drives a headless Chrome through each configured catalog page,
scrolls until lazy-loaded products stop appearing and extracts every product card.

Site URLs come from <SITE>_URLS environment variables (for example LOI_URLS)
or from a YAML file passed with --config. Without arguments the default site is scraped.`,
		Example: `# Scrape the default site
LOI_URLS=https://shop.example/catalogo catalog

# Scrape two sites as newline-delimited JSON
catalog scrape loi amw --format json

# List configured sites
catalog sites`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.Application) error {
			return runScrape(cmd, a, args, false)
		}),
	}

	// The application is built after flag parsing so -h and --version never
	// touch configuration.
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if GetAppFromCmd(cmd) != nil {
			return nil
		}
		cfg, err := config.Load(cmd)
		if err != nil {
			return err
		}
		a, err := app.New(cfg, opts...)
		if err != nil {
			return err
		}
		SetApp(cmd, a)
		return nil
	}

	config.RegisterFlags(root)
	root.Flags().BoolP("help", "h", false, "Help for catalog")
	root.Flags().Bool("version", false, "Version for catalog")

	root.AddCommand(newScrapeCmd(), newSitesCmd())

	root.CompletionOptions.DisableDefaultCmd = true
	root.SetHelpFunc(customHelpFunc)
	root.SetUsageFunc(customUsageFunc)
	return root
}

// withApp hands the command's Application to run and closes it afterwards,
// whether run fails or not
func withApp(run func(cmd *cobra.Command, args []string, a *app.Application) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a := GetAppFromCmd(cmd)
		if a == nil {
			return fmt.Errorf("application not initialized")
		}
		defer func() {
			if cerr := a.Close(); cerr != nil && err == nil {
				err = cerr
			}
			SetApp(cmd, nil)
		}()
		return run(cmd, args, a)
	}
}

// Execute runs the root command with ctx and returns the process exit code
func Execute(ctx context.Context) int {
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		if ui.ColorEnabled(os.Stderr) {
			fmt.Fprintln(os.Stderr, ui.Error("Error: ")+err.Error())
		} else {
			fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		}
		return 1
	}
	return 0
}
