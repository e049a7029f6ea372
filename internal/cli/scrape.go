package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/law-makers/catalog/internal/app"
	"github.com/law-makers/catalog/internal/config"
	"github.com/law-makers/catalog/internal/engine"
	"github.com/law-makers/catalog/internal/reqctx"
	"github.com/law-makers/catalog/internal/ui"
	"github.com/law-makers/catalog/internal/utils/output"
	"github.com/law-makers/catalog/pkg/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [site...]",
		Short: "Scrape the catalog pages of one or more sites",
		Long: `Scrape visits every URL configured for the named sites, in order, with one
browser session per site. Products are written to stdout as soon as each page is done.`,
		Example: `# Scrape a single site
catalog scrape covercompany

# Scrape every site that has URLs configured
catalog scrape --all --format csv`,
		RunE: withApp(func(cmd *cobra.Command, args []string, a *app.Application) error {
			all, _ := cmd.Flags().GetBool("all")
			return runScrape(cmd, a, args, all)
		}),
	}
	cmd.Flags().Bool("all", false, "Scrape every configured site that has URLs")
	return cmd
}

// resolveSites maps command arguments to configured sites. No arguments means
// the default site; all selects every site with URLs.
func resolveSites(cfg *config.Config, args []string, all bool) ([]*config.Site, error) {
	if all {
		if len(args) > 0 {
			return nil, fmt.Errorf("--all cannot be combined with site names")
		}
		var sites []*config.Site
		for _, id := range cfg.SiteIDs() {
			s, _ := cfg.Site(id)
			if len(s.URLs) == 0 {
				log.Debug().Str("site", id).Msg("Skipping site without URLs")
				continue
			}
			sites = append(sites, s)
		}
		if len(sites) == 0 {
			return nil, engine.NewEngineError(engine.ErrCodeNoURLs, "no site has URLs configured", engine.ErrNoURLs)
		}
		return sites, nil
	}

	if len(args) == 0 {
		args = []string{cfg.DefaultSite}
	}

	seen := make(map[string]bool, len(args))
	sites := make([]*config.Site, 0, len(args))
	for _, arg := range args {
		id := strings.ToLower(strings.TrimSpace(arg))
		if seen[id] {
			continue
		}
		s, ok := cfg.Site(id)
		if !ok {
			return nil, fmt.Errorf("%w %q (known: %s)", engine.ErrUnknownSite, arg, strings.Join(cfg.SiteIDs(), ", "))
		}
		seen[id] = true
		sites = append(sites, s)
	}
	return sites, nil
}

func runScrape(cmd *cobra.Command, a *app.Application, args []string, all bool) error {
	sites, err := resolveSites(a.Config, args, all)
	if err != nil {
		return err
	}

	renderer, err := output.New(a.Config.Format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	total := 0
	for _, s := range sites {
		total += len(s.URLs)
	}
	progress := ui.NewProgress(cmd.ErrOrStderr(), total, a.Config.Progress)
	defer progress.Done()

	ctx := reqctx.WithRun(cmd.Context())
	run := reqctx.RunFrom(ctx)
	start := time.Now()

	log.Info().
		Str("run_id", run.RunID).
		Int("sites", len(sites)).
		Int("urls", total).
		Msg("Starting scrape")

	if err := renderer.Begin(); err != nil {
		return err
	}

	products := 0
	for _, site := range sites {
		sum, err := a.Runner.ScrapeSite(ctx, site, func(p *models.PageResult) error {
			progress.Step(site.ID)
			return renderer.Page(p)
		})
		products += sum.Products

		ev := log.Info()
		if sum.MarkerMiss > 0 || sum.Partial > 0 || sum.Degraded > 0 {
			ev = log.Warn()
		}
		ev.Str("run_id", run.RunID).
			Str("site", sum.Site).
			Int("pages", sum.Pages).
			Int("products", sum.Products).
			Int("cached", sum.Cached).
			Int("marker_missing", sum.MarkerMiss).
			Int("partial", sum.Partial).
			Int("degraded", sum.Degraded).
			Msg("Site finished")

		if err != nil {
			// keep whatever was already rendered well-formed
			_ = renderer.End()
			return fmt.Errorf("site %s: %w", site.ID, err)
		}
	}

	if err := renderer.End(); err != nil {
		return err
	}

	log.Info().
		Str("run_id", run.RunID).
		Int("products", products).
		Dur("elapsed", time.Since(start)).
		Msg("Scrape complete")
	return nil
}
