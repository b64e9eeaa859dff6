package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"menusales/internal/amqp"
	"menusales/internal/backend"
	"menusales/internal/cli"
	"menusales/internal/core"
	"menusales/internal/services"
	"menusales/internal/storage"
)

const missingCell = "-"

func categoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the menu categories",
		Args:  cobra.NoArgs,
		RunE: withApp(func(_ context.Context, app *cli.App, _ []string) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, c := range app.Sales.Categories() {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, c.Label, c.Layout)
			}
			return tw.Flush()
		}),
	}
}

func itemsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "items <category>",
		Short: "List the items of a category in sheet order",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
			n, err := app.Sales.Series(ctx, core.Category(args[0]))
			if err != nil {
				return err
			}
			for _, item := range n.Items() {
				fmt.Println(item)
			}
			return nil
		}),
	}
}

func seriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series <category> <item>",
		Short: "Print one item's monthly sales",
		Args:  cobra.ExactArgs(2),
		RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
			res, err := app.Sales.Single(ctx, core.Category(args[0]), args[1])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			for _, p := range res.Points {
				fmt.Fprintf(tw, "%s\t%s\n", p.Month, cellText(p.Quantity))
			}
			return tw.Flush()
		}),
	}
}

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <category> [item...]",
		Short: "Print several items side by side, one row per month",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
			res, err := app.Sales.Compare(ctx, core.Category(args[0]), args[1:])
			if err != nil {
				return err
			}
			if res.Table.Empty() {
				fmt.Fprintln(os.Stderr, "warning: no items selected")
				return nil
			}
			return writeTable(os.Stdout, res.Table)
		}),
	}
}

func writeTable(w io.Writer, t core.SeriesTable) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "month\t%s\n", strings.Join(t.Items, "\t"))
	for m, month := range t.Months {
		cells := make([]string, len(t.Items))
		for i := range t.Items {
			cells[i] = cellText(t.Cells[m][i])
		}
		fmt.Fprintf(tw, "%s\t%s\n", month, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

func cellText(q core.Quantity) string {
	if !q.Valid {
		return missingCell
	}
	return core.FormatQuantity(q)
}

func chartCmd() *cobra.Command {
	var line bool
	cmd := &cobra.Command{
		Use:   "chart <category> <item...>",
		Short: "Render a PNG chart: bars for one item, lines for a comparison",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
			if outputPath == "" {
				return errors.New("--output is required")
			}
			f, err := os.Create(outputPath)
			if err != nil {
				return fmt.Errorf("create %s: %w", outputPath, err)
			}

			category, items := core.Category(args[0]), args[1:]
			if len(items) == 1 && !line {
				err = app.Sales.WriteBarChart(ctx, f, category, items[0])
			} else {
				err = app.Sales.WriteLineChart(ctx, f, category, items)
			}
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				_ = os.Remove(outputPath)
				return err
			}
			fmt.Fprintf(os.Stderr, "wrote %s\n", outputPath)
			return nil
		}),
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output PNG file")
	cmd.Flags().BoolVar(&line, "line", false, "Draw a line chart even for a single item")
	return cmd
}

func commentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Append to or read the comment log",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <text...>",
		Short: "Append one comment line",
		Args:  cobra.MinimumNArgs(1),
		RunE: withApp(func(ctx context.Context, app *cli.App, args []string) error {
			return app.Comments.Add(ctx, strings.TrimSpace(strings.Join(args, " ")))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print the comment log",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, app *cli.App, _ []string) error {
			entries, err := app.Comments.List(ctx)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Println(e)
			}
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "watch",
		Short: "Print comments as they are appended (requires AMQP_URL)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			if cfg.AMQPURL == "" {
				return errors.New("AMQP_URL is not set")
			}
			client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				return err
			}
			defer client.Close()

			err = client.ConsumeCommentAppended(cmd.Context(), func(msg *amqp.CommentAppendedMessage) error {
				_, err := fmt.Printf("%s\t%s\n", msg.Timestamp.Local().Format("2006-01-02 15:04:05"), msg.Comment)
				return err
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	})
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy every category from the configured source into a SQLite database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			target := dbPath
			if target == "" {
				target = cfg.SQLiteDBPath
			}
			if cfg.DataBackend == string(backend.SQLiteBackend) && samePath(target, cfg.SQLiteDBPath) {
				return errors.New("source and target are the same SQLite database")
			}

			catalog, err := cfg.Catalog()
			if err != nil {
				return err
			}
			bc, err := backend.FromAppConfig(cfg)
			if err != nil {
				return err
			}
			bc.CacheEnabled = false

			ctx := cmd.Context()
			src, err := backend.NewFactory(logger.Logger).CreateLoader(ctx, bc, catalog)
			if err != nil {
				return err
			}
			if src.Cleanup != nil {
				defer src.Cleanup()
			}

			if dir := filepath.Dir(target); dir != "" {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create database directory: %w", err)
				}
			}
			repo, err := storage.NewSQLiteRepository(target, catalog)
			if err != nil {
				return err
			}
			defer repo.Close()

			categories := make([]core.Category, 0, catalog.Len())
			for _, info := range catalog.All() {
				categories = append(categories, info.Name)
			}
			rep, err := services.ImportSheets(ctx, src.Loader, repo, categories)
			for _, c := range rep.Imported {
				fmt.Printf("imported %s\n", c)
			}
			for _, c := range rep.Skipped {
				fmt.Printf("skipped %s (not in source)\n", c)
			}
			return err
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "Target SQLite database (default SQLITE_DB_PATH)")
	return cmd
}

func samePath(a, b string) bool {
	pa, errA := filepath.Abs(a)
	pb, errB := filepath.Abs(b)
	return errA == nil && errB == nil && pa == pb
}
