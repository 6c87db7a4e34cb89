// Package commands adds offline sub-commands to the PocketBase root command.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/spf13/cobra"

	"boilerquote/catalog"
	"boilerquote/collections"
	"boilerquote/quote"
	"boilerquote/services"
)

// Deps are the collaborators the commands need. App may be nil when only
// file-based commands are used.
type Deps struct {
	App         *pocketbase.PocketBase
	Catalog     func(ctx context.Context) (*catalog.Catalog, error)
	CompanyName string
	Now         func() time.Time
}

// Register adds the quote and catalog commands to root.
func Register(root *cobra.Command, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	root.AddCommand(NewQuoteCommand(deps), NewCatalogCommand(deps))
}

func NewQuoteCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Work with saved quotes",
	}
	cmd.AddCommand(newQuoteExportCommand(deps))
	return cmd
}

func newQuoteExportCommand(deps Deps) *cobra.Command {
	var (
		snapshotPath string
		quoteID      string
		catalogPath  string
		format       string
		out          string
		reference    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render a quote snapshot as pdf, excel, json or zip",
		Example: "  boilerquote quote export --snapshot quote.json --format pdf --out quote.pdf\n" +
			"  boilerquote quote export --id 2b1c... --format zip",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if (snapshotPath == "") == (quoteID == "") {
				return fmt.Errorf("give exactly one of --snapshot or --id")
			}

			st, err := loadState(ctx, deps, snapshotPath, quoteID)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(ctx, deps, catalogPath)
			if err != nil {
				return err
			}
			for _, w := range quote.UnresolvedReferences(cat, st) {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
			}

			exp := quote.BuildExport(cat, st, deps.Now())
			if reference == "" {
				reference = quoteID
				if snapshotPath != "" {
					reference = strings.TrimSuffix(filepath.Base(snapshotPath), filepath.Ext(snapshotPath))
				}
			}
			data := services.NewExportData(cat, exp, deps.CompanyName, reference)

			body, err := services.Render(ctx, format, exp, data)
			if err != nil {
				return fmt.Errorf("export %s: %w", format, err)
			}
			if out == "" {
				out = services.FileName(exp, format)
			}
			if out == "-" {
				_, err := cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(out, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%s, grand total %s)\n", out, format, services.FormatGBP(exp.Totals.GrandTotal))
			return nil
		},
	}

	cmd.Flags().StringVar(&snapshotPath, "snapshot", "", "quote snapshot JSON file")
	cmd.Flags().StringVar(&quoteID, "id", "", "id of a quote saved on this device")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "price book JSON file (default: the active price book)")
	cmd.Flags().StringVar(&format, "format", services.FormatPDF, "one of "+strings.Join(services.ExportFormats(), ", "))
	cmd.Flags().StringVar(&out, "out", "", `output file, "-" for stdout (default: named after the lead)`)
	cmd.Flags().StringVar(&reference, "reference", "", "reference printed on the document")
	return cmd
}

func loadState(ctx context.Context, deps Deps, snapshotPath, quoteID string) (quote.State, error) {
	if snapshotPath != "" {
		raw, err := os.ReadFile(snapshotPath)
		if err != nil {
			return quote.State{}, fmt.Errorf("read snapshot: %w", err)
		}
		return quote.Unmarshal(raw)
	}
	if deps.App == nil {
		return quote.State{}, fmt.Errorf("--id needs the quote store")
	}
	return collections.NewStore(deps.App).LoadSnapshot(ctx, quoteID)
}

func loadCatalog(ctx context.Context, deps Deps, path string) (*catalog.Catalog, error) {
	if path != "" {
		return catalog.LoadFile(path)
	}
	if deps.Catalog == nil {
		return catalog.Default()
	}
	return deps.Catalog(ctx)
}

func NewCatalogCommand(deps Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Check and install price books",
	}
	cmd.AddCommand(newCatalogCheckCommand(), newCatalogImportCommand(deps), newCatalogListCommand(deps))
	return cmd
}

func newCatalogCheckCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate a price book JSON file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cat, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}
			writeCatalogSummary(cmd.OutOrStdout(), file, cat)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "price book JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCatalogImportCommand(deps Deps) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Validate a price book and make it the active one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.App == nil {
				return fmt.Errorf("catalog import needs the price book store")
			}
			cat, err := catalog.LoadFile(file)
			if err != nil {
				return err
			}
			if err := collections.Seed(deps.App, cat, collections.SourceImport); err != nil {
				return err
			}
			writeCatalogSummary(cmd.OutOrStdout(), file, cat)
			fmt.Fprintln(cmd.OutOrStdout(), "installed as the active price book")
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "price book JSON file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCatalogListCommand(deps Deps) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the price books stored on this device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if deps.App == nil {
				return fmt.Errorf("catalog list needs the price book store")
			}
			if err := collections.Setup(deps.App); err != nil {
				return err
			}
			versions, err := collections.PriceBookVersions(deps.App)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no price books stored")
				return nil
			}
			active := ""
			if cat, err := collections.ActiveCatalog(cmd.Context(), deps.App); err == nil {
				active = cat.Version()
			}
			for _, v := range versions {
				marker := ""
				if v == active {
					marker = " (active)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", v, marker)
			}
			return nil
		},
	}
}

func writeCatalogSummary(w io.Writer, file string, cat *catalog.Catalog) {
	version := cat.Version()
	if version == "" {
		version = "(unversioned)"
	}
	fmt.Fprintf(w, "%s: price book %s OK\n", file, version)
	fmt.Fprintf(w, "  %d customers, %d boiler types, %d packs, %d systems\n",
		len(cat.Customers()), len(cat.BoilerTypes()), len(cat.Packs()), len(cat.SystemOptions()))
	fmt.Fprintf(w, "  %d boilers, %d flues, %d gas options, %d condensate options, %d components\n",
		len(cat.Boilers()), len(cat.Flues()), len(cat.GasOptions()), len(cat.CondensateOptions()), len(cat.Components()))
}
