package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipro/internal/config"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/engine"
	"github.com/hammamikhairi/recipro/internal/scaler"
	"github.com/hammamikhairi/recipro/internal/server"
)

const shutdownTimeout = 10 * time.Second

var (
	listJSON    bool
	listQuery   string
	scaleJSON   bool
	shopOut     string
	shopDetails bool
	exportOut   string
)

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(scaleCmd)
	rootCmd.AddCommand(shopCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)

	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().StringVarP(&listQuery, "search", "s", "", "only recipes whose title contains this text")
	scaleCmd.Flags().BoolVar(&scaleJSON, "json", false, "output as JSON")
	shopCmd.Flags().StringVarP(&shopOut, "out", "o", "", "also write the list with a summary to this file")
	shopCmd.Flags().BoolVar(&shopDetails, "breakdown", false, "print the per-recipe ingredient breakdown too")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "backup file (default recipes-backup-YYYY-MM-DD.json, - for stdout)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the REST API and tool endpoint",
	Long: `Serve the recipe library over HTTP.

Examples:
  # Listen on the configured address
  recipro serve

  # Keep recipes in memory only and listen on all interfaces
  RECIPRO_STORE_DRIVER=memory RECIPRO_SERVER_HOST=0.0.0.0 recipro serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recipes",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var scaleCmd = &cobra.Command{
	Use:   "scale <recipe> <students>",
	Short: "Scale a recipe for a number of students",
	Long: `Scale a recipe for a number of students (1-100). The recipe is a
number from 'recipro list' or a recipe ID.

Examples:
  recipro scale 2 12
  recipro scale classic-margherita-pizza 30 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runScale,
}

var shopCmd = &cobra.Command{
	Use:   "shop <recipe>[:multiplier]...",
	Short: "Build a shopping list from several recipes",
	Long: `Combine recipes and print one categorised shopping list. A recipe
may carry a multiplier after a colon.

Examples:
  recipro shop 1 3:2
  recipro shop classic-margherita-pizza:1.5 molten-chocolate-lava-cake -o list.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: runShop,
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every recipe to a JSON backup (admin)",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load recipes from a JSON backup (admin)",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.store, a.users, a.log, server.Config{
		Host: a.cfg.Server.Host,
		Port: a.cfg.Server.Port,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()
	fmt.Fprintf(cmd.OutOrStdout(), "recipro listening on http://%s\n", a.cfg.Server.Addr())

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func runList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	var recipes []*domain.Recipe
	if listQuery != "" {
		recipes, err = a.engine.Search(ctx, listQuery)
	} else {
		recipes, err = a.engine.ListRecipes(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		return writeJSON(out, recipes)
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tID\tTITLE\tCATEGORY\tSERVES")
	for i, r := range recipes {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\n", i+1, r.ID, r.Title, r.Category, r.Servings)
	}
	return w.Flush()
}

func runScale(cmd *cobra.Command, args []string) error {
	students, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: %q is not a student count", domain.ErrValidation, args[1])
	}

	ctx := cmd.Context()
	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	// Numeric references index the default listing.
	if _, err := a.engine.ListRecipes(ctx); err != nil {
		return err
	}
	s, err := a.engine.Scale(ctx, args[0], students)
	if err != nil {
		return err
	}

	if scaleJSON {
		return writeJSON(cmd.OutOrStdout(), s)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), renderScaled(s))
	return err
}

func runShop(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.engine.ListRecipes(ctx); err != nil {
		return err
	}
	for _, arg := range args {
		ref, mult, _ := strings.Cut(arg, ":")
		m, err := engine.ParseMultiplier(mult)
		if err != nil {
			return err
		}
		if _, err := a.engine.AddToCombo(ctx, ref, m); err != nil {
			return err
		}
	}

	text, err := a.engine.ShoppingList()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, text)

	if shopDetails {
		breakdown, err := a.engine.Breakdown()
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, breakdown)
	}

	if shopOut != "" {
		f, err := os.Create(shopOut)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := a.engine.ExportShoppingList(f); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "shopping list saved to %s\n", shopOut)
	}
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	if exportOut == "-" {
		_, err := a.engine.Export(ctx, cmd.OutOrStdout())
		return err
	}

	path := exportOut
	if path == "" {
		path = backupFileName(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	bundle, err := a.engine.Export(ctx, f)
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "exported %d recipes to %s\n", bundle.TotalRecipes, path)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, "stderr")
	if err != nil {
		return err
	}
	defer a.Close()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	res, err := a.engine.Import(ctx, f)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d recipes (%d failed)\n", res.Successful, res.Total, res.Failed)
	if a.cfg.Store.Driver == config.DriverMemory {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: store.driver is memory; imported recipes are gone when recipro exits")
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func backupFileName(now time.Time) string {
	return fmt.Sprintf("recipes-backup-%s.json", now.Format("2006-01-02"))
}

func renderRecipe(r *domain.Recipe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", r.Title)
	fmt.Fprintf(&b, "%s · serves %d\n\n", r.Category, r.Servings)
	b.WriteString("Ingredients:\n")
	for _, line := range r.Ingredients {
		b.WriteString("  - " + line + "\n")
	}
	if len(r.Instructions) > 0 {
		b.WriteString("\nInstructions:\n")
		for i, step := range r.Instructions {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, step)
		}
	}
	if r.Tips != "" {
		b.WriteString("\nTip: " + r.Tips + "\n")
	}
	return b.String()
}

func renderScaled(s scaler.Scaled) string {
	var b strings.Builder
	fmt.Fprintf(&b, "=== %s ===\n", s.Title)
	fmt.Fprintf(&b, "Scaled ×%d: %d servings (base %d)\n\n", s.ScaleFactor, s.TotalServings, s.BaseServings)
	for _, line := range s.Lines {
		b.WriteString("  - " + line + "\n")
	}
	return b.String()
}

func renderStats(st *domain.RecipeStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Recipes: %d\n", st.Total)

	cats := make([]string, 0, len(st.Categories))
	for c := range st.Categories {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		fmt.Fprintf(&b, "  %s: %d\n", c, st.Categories[c])
	}

	if len(st.RecentlyAdded) > 0 {
		b.WriteString("\nRecently added:\n")
		for _, r := range st.RecentlyAdded {
			fmt.Fprintf(&b, "  %s (%s)\n", r.Title, r.DateCreated.Format("1/2/2006"))
		}
	}
	return b.String()
}
