package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mahmoud22020/Pvdmenus/internal/app"
	"github.com/mahmoud22020/Pvdmenus/internal/bulk"
	"github.com/mahmoud22020/Pvdmenus/internal/config"
	"github.com/mahmoud22020/Pvdmenus/internal/domain"
	"github.com/mahmoud22020/Pvdmenus/internal/event"
	"github.com/mahmoud22020/Pvdmenus/internal/remote"
	"github.com/mahmoud22020/Pvdmenus/internal/repository/memory"
	"github.com/mahmoud22020/Pvdmenus/internal/service"
	"github.com/mahmoud22020/Pvdmenus/internal/sheet"
	"github.com/mahmoud22020/Pvdmenus/pkg/httpclient"
	pkgkafka "github.com/mahmoud22020/Pvdmenus/pkg/kafka"
)

const kindAll = "all"

type importOptions struct {
	venue     string
	file      string
	kind      string
	api       string
	username  string
	password  string
	dryRun    bool
	translate bool
}

func newImportCmd(e *env) *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Apply a bulk workbook to a venue through the admin API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.api == "" {
				opts.api = e.cfg.APIURL
			}
			if opts.username == "" {
				opts.username = e.cfg.APIUsername
			}
			if opts.password == "" {
				opts.password = e.cfg.APIPassword
			}
			var translator bulk.Translator
			if opts.translate {
				translator = app.NewTranslator(e.cfg, nil, e.logger)
			}
			client := remote.New(httpclient.New(httpclient.DefaultConfig()), opts.api, e.logger)
			return runImport(cmd.Context(), opts, client, translator, e.cfg, e.logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.venue, "venue", "", "venue to import into (required)")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "xlsx workbook (required)")
	cmd.Flags().StringVar(&opts.kind, "kind", kindAll, "categories, items or all (categories first)")
	cmd.Flags().StringVar(&opts.api, "api", "", "admin API base URL (default $MENU_API_URL)")
	cmd.Flags().StringVar(&opts.username, "username", "", "admin username (default $MENU_API_USERNAME)")
	cmd.Flags().StringVar(&opts.password, "password", "", "admin password (default $MENU_API_PASSWORD)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "apply to an in-memory copy of the venue and report, changing nothing")
	cmd.Flags().BoolVar(&opts.translate, "translate", false, "machine-translate blank translation cells")
	_ = cmd.MarkFlagRequired("venue")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type batch struct {
	kind string
	rows []bulk.Row
}

// batches picks the sheets kind asks for, categories before items.
func batches(wb *sheet.Workbook, kind string) ([]batch, error) {
	switch kind {
	case service.KindCategories, service.KindItems:
		rows := wb.Categories
		if kind == service.KindItems {
			rows = wb.Items
		}
		if rows == nil {
			return nil, fmt.Errorf("workbook has no %s sheet", kind)
		}
		return []batch{{kind, rows}}, nil
	case kindAll:
		var out []batch
		if wb.Categories != nil {
			out = append(out, batch{service.KindCategories, wb.Categories})
		}
		if wb.Items != nil {
			out = append(out, batch{service.KindItems, wb.Items})
		}
		return out, nil
	}
	return nil, fmt.Errorf("unknown --kind %q", kind)
}

func runImport(
	ctx context.Context,
	opts importOptions,
	client *remote.Client,
	translator bulk.Translator,
	cfg *config.Config,
	logger *slog.Logger,
	out io.Writer,
) error {
	venue, err := domain.ParseVenue(opts.venue)
	if err != nil {
		return withCode(exitUsage, err)
	}
	f, err := os.Open(opts.file)
	if err != nil {
		return withCode(exitUsage, err)
	}
	defer f.Close()
	wb, err := sheet.Decode(f)
	if err != nil {
		return withCode(exitUsage, err)
	}
	todo, err := batches(wb, strings.ToLower(opts.kind))
	if err != nil {
		return withCode(exitUsage, err)
	}

	if _, err := client.Login(ctx, opts.username, opts.password); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	vc := client.Venue(venue)
	categories, err := vc.ListCategories(ctx)
	if err != nil {
		return err
	}
	items, err := vc.ListItems(ctx)
	if err != nil {
		return err
	}

	bcfg := bulk.Config{Languages: cfg.TranslateLanguages, AutoTranslate: translator != nil, MaxRows: cfg.BulkMaxRows}
	run := remoteRunner(vc, translator, bcfg, categories, items, logger)
	if opts.dryRun {
		fmt.Fprintln(out, "dry run: nothing is written to", opts.api)
		run = dryRunner(venue, translator, bcfg, categories, items, logger)
	}

	failed := false
	for _, b := range todo {
		summary, err := run(ctx, b.kind, b.rows)
		if summary != nil {
			fmt.Fprintf(out, "%s (%d rows)\n%s", b.kind, summary.Rows, summary.Display())
			failed = failed || summary.HasErrors()
		}
		if err != nil {
			return err
		}
	}
	if failed {
		return withCode(exitFailure, errors.New("import finished with row errors"))
	}
	return nil
}

type runner func(ctx context.Context, kind string, rows []bulk.Row) (*bulk.Summary, error)

// remoteRunner applies rows through the admin API. One engine serves every
// batch so items can resolve categories created moments before.
func remoteRunner(vc *remote.VenueClient, translator bulk.Translator, cfg bulk.Config, categories []domain.Category, items []domain.Item, logger *slog.Logger) runner {
	engine := bulk.NewEngine(vc.Ports(translator), cfg, categories, items, logger)
	return func(ctx context.Context, kind string, rows []bulk.Row) (*bulk.Summary, error) {
		if kind == service.KindCategories {
			return engine.RunCategories(ctx, rows)
		}
		return engine.RunItems(ctx, rows)
	}
}

// dryRunner applies rows to an in-memory copy of the venue, validated by the
// same services the server runs.
func dryRunner(venue domain.Venue, translator bulk.Translator, cfg bulk.Config, categories []domain.Category, items []domain.Item, logger *slog.Logger) runner {
	store := memory.NewStore()
	store.Seed(categories, items)

	producer := event.NewProducer(pkgkafka.NopPublisher{}, logger)
	menu := service.NewMenuService(store.Categories(), store.Items(), producer, logger)
	dayPricing := service.NewDayPricingService(store.Items(), store.DayPricing(), logger)
	svc := service.NewBulkService(menu, dayPricing, store.Translations(), translator, producer, cfg, logger)

	return func(ctx context.Context, kind string, rows []bulk.Row) (*bulk.Summary, error) {
		res, err := svc.Run(ctx, venue, kind, rows)
		if res == nil {
			return nil, err
		}
		return res.Summary, err
	}
}
