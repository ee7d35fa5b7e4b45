package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"catalog-browser/models"
	"catalog-browser/server"
	"catalog-browser/services"
	"catalog-browser/storage"
)

// filterFlags mirrors the sidebar form.
type filterFlags struct {
	minPrice     string
	maxPrice     string
	availability []string
	condition    []string
	category     []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.minPrice, "min", "", "minimum selling price (default: catalog minimum)")
	cmd.Flags().StringVar(&f.maxPrice, "max", "", "maximum selling price (default: catalog maximum)")
	cmd.Flags().StringArrayVar(&f.availability, "availability", nil, "availability values to keep (repeatable)")
	cmd.Flags().StringArrayVar(&f.condition, "condition", nil, "condition values to keep (repeatable)")
	cmd.Flags().StringArrayVar(&f.category, "category", nil, "categories to keep (repeatable)")
}

func (f *filterFlags) form() server.FilterForm {
	return server.FilterForm{
		MinPrice:     strings.TrimSpace(f.minPrice),
		MaxPrice:     strings.TrimSpace(f.maxPrice),
		Availability: f.availability,
		Condition:    f.condition,
		Category:     f.category,
		Apply:        true,
	}
}

func (f *filterFlags) criteria(ds *models.Dataset) (models.FilterCriteria, error) {
	form := f.form()
	if err := form.Validate(); err != nil {
		return models.FilterCriteria{}, err
	}
	return form.Criteria(ds)
}

func newFilterCommand(a *app) *cobra.Command {
	var flags filterFlags
	var format, output string

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the products matching the given filters",
		Example: `  catalog-browser filter --availability "In Stock" --max 100
  catalog-browser filter --category Cookware --format csv --output cookware.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cache, cleanup, err := a.openCatalog(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			ds, err := cache.Get(ctx)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}
			c, err := flags.criteria(ds)
			if err != nil {
				return err
			}
			products := services.ApplyDataset(ds, c)
			a.logger.Debug("[filter] %d of %d products match", len(products), ds.Len())

			switch format {
			case "csv":
				return writeCSV(a.out, output, products)
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(products)
			case "table":
				return writeTable(a.out, products)
			default:
				return fmt.Errorf("unknown format %q (want table, csv or json)", format)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format: table, csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write CSV to this file instead of stdout")
	return cmd
}

func writeCSV(out io.Writer, path string, products []models.Product) error {
	var (
		w   *storage.CSVWriter
		err error
	)
	if path != "" {
		w, err = storage.CreateCSVFile(path)
	} else {
		w, err = storage.NewCSVWriter(out)
	}
	if err != nil {
		return err
	}
	return storage.WriteAll(w, products)
}

func writeTable(out io.Writer, products []models.Product) error {
	if len(products) == 0 {
		_, err := fmt.Fprintln(out, "No results match the selected filters.")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tNAME\tCATEGORY\tAVAILABILITY\tCONDITION\tPRICE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.Row, p.Name, p.Category, p.Availability, p.Condition, p.SellingPrice.StringFixed(2))
	}
	return tw.Flush()
}
