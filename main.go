package main

import (
	"context"
	"errors"
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"boilerquote/catalog"
	"boilerquote/collections"
	"boilerquote/commands"
	"boilerquote/config"
	"boilerquote/errs"
	"boilerquote/handlers"
	"boilerquote/logger"
	"boilerquote/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logg := logger.New(logger.Options{
		ServiceName: "boilerquote",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	app := pocketbase.NewWithConfig(pocketbase.Config{DefaultDataDir: cfg.App.DataDir})

	store := collections.NewStore(app)
	persister := session.NewPersister(store, cfg.Persist.Debounce, logg)

	loadCatalog := func(ctx context.Context) (*catalog.Catalog, error) {
		return preparePriceBook(ctx, app, cfg, logg)
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		ctx := context.Background()

		// One-shot load; a session cannot start without a price book.
		probe, err := session.Open(ctx, loadCatalog, session.Options{LabourRate: cfg.Quote.DefaultLabourRate, Logger: logg})
		if err != nil {
			logg.Error(logg.WithField(ctx, "code", string(errs.CodeCatalogLoad)), "price book could not be loaded", err)
			return err
		}
		cat := probe.Catalog()
		logg.Info(logg.WithField(ctx, "version", cat.Version()), "price book loaded")

		reg := handlers.NewRegistry(cat, store, handlers.RegistryOptions{
			LabourRate:  cfg.Quote.DefaultLabourRate,
			CompanyName: cfg.App.CompanyName,
			Persister:   persister,
			Logger:      logg,
		})

		// ── Price book ───────────────────────────────────────────
		se.Router.GET("/api/catalog", handlers.HandleCatalog(reg))
		se.Router.GET("/api/catalog/boilers", handlers.HandleEligibleBoilers(reg))
		se.Router.GET("/api/catalog/flues", handlers.HandleEligibleFlues(reg))
		se.Router.GET("/api/catalog/snippets/{category}", handlers.HandleSnippets(reg))

		// ── Quotes ───────────────────────────────────────────────
		se.Router.POST("/api/quotes", handlers.HandleQuoteCreate(reg))
		se.Router.GET("/api/quotes", handlers.HandleQuoteList(reg))
		se.Router.POST("/api/quotes/import", handlers.HandleQuoteImport(reg))
		se.Router.GET("/api/quotes/{id}", handlers.HandleQuoteView(reg))
		se.Router.DELETE("/api/quotes/{id}", handlers.HandleQuoteDelete(reg))

		// Specific operations before the {op} catch-all
		se.Router.POST("/api/quotes/{id}/import", handlers.HandleQuoteMerge(reg))
		se.Router.POST("/api/quotes/{id}/reset", handlers.HandleQuoteReset(reg))
		se.Router.POST("/api/quotes/{id}/{op}", handlers.HandleQuoteMutation(reg))

		// ── Derived views and exports ────────────────────────────
		se.Router.GET("/api/quotes/{id}/pricing", handlers.HandleQuotePricing(reg))
		se.Router.GET("/api/quotes/{id}/checks", handlers.HandleQuoteChecks(reg))
		se.Router.GET("/api/quotes/{id}/summary", handlers.HandleQuoteSummary(reg))
		se.Router.GET("/api/quotes/{id}/export/{format}", handlers.HandleQuoteExport(reg))

		return se.Next()
	})

	// Pending snapshot saves are written before the process exits.
	app.OnTerminate().BindFunc(func(e *core.TerminateEvent) error {
		persister.Flush(context.Background())
		return e.Next()
	})

	commands.Register(app.RootCmd, commands.Deps{
		App:         app,
		Catalog:     loadCatalog,
		CompanyName: cfg.App.CompanyName,
	})

	// Without a sub-command, serve on the configured local address.
	if len(os.Args) < 2 {
		app.RootCmd.SetArgs([]string{"serve", "--http", cfg.App.HTTPAddr})
	}

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}

// preparePriceBook makes sure the collections exist and a price book is
// active, then loads it. A configured price-book file is installed on every
// start; the bundled one only when nothing is active yet.
func preparePriceBook(ctx context.Context, app *pocketbase.PocketBase, cfg *config.Config, logg *logger.Logger) (*catalog.Catalog, error) {
	if err := collections.Setup(app); err != nil {
		return nil, err
	}

	if cfg.Catalog.Path != "" {
		cat, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			return nil, err
		}
		if err := collections.Seed(app, cat, collections.SourceFile); err != nil {
			return nil, errs.Wrap(errs.CodeCatalogLoad, err, "store price book")
		}
		return cat, nil
	}

	cat, err := collections.ActiveCatalog(ctx, app)
	if err == nil {
		return cat, nil
	}
	var malformed *catalog.MalformedCatalogError
	if errors.As(err, &malformed) {
		return nil, err
	}

	logg.Info(ctx, "no active price book; installing the bundled one")
	bundled, err := catalog.Default()
	if err != nil {
		return nil, err
	}
	if err := collections.Seed(app, bundled, collections.SourceBundled); err != nil {
		return nil, errs.Wrap(errs.CodeCatalogLoad, err, "store bundled price book")
	}
	return bundled, nil
}
