package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/recipro/internal/conversation"
	"github.com/hammamikhairi/recipro/internal/display"
	"github.com/hammamikhairi/recipro/internal/domain"
	"github.com/hammamikhairi/recipro/internal/engine"
	"github.com/hammamikhairi/recipro/internal/logger"
	"github.com/hammamikhairi/recipro/internal/scaler"
)

// runInteractive starts the prompt. Logs go to a file by default so the
// REPL stays clean.
func runInteractive(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	a, err := setup(ctx, ".recipro-logs/recipro.log")
	if err != nil {
		return err
	}
	defer a.Close()

	ui := display.NewUI(a.engine.Combination())
	repl := &cliApp{
		engine:   a.engine,
		parser:   conversation.NewKeywordParser(a.log),
		notifier: conversation.NewCLINotifier(a.log, ui.Printf),
		log:      a.log,
		ui:       ui,
	}

	fmt.Println(display.RenderBanner(display.TermWidth()))
	fmt.Println(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	fmt.Println()

	go func() {
		ui.WaitReady()
		repl.run(ctx)
		ui.Quit()
	}()

	// Bubble Tea owns the terminal until quit.
	if err := ui.Run(); err != nil {
		a.log.Error("display: %v", err)
		return err
	}
	return nil
}

type cliApp struct {
	engine   *engine.Engine
	parser   domain.IntentParser
	notifier domain.Notifier
	log      *logger.Logger
	ui       *display.UI
}

func (a *cliApp) say(ctx context.Context, text string) {
	_ = a.notifier.Notify(ctx, text)
}

func (a *cliApp) fail(ctx context.Context, err error) {
	a.log.Debug("command failed: %v", err)
	_ = a.notifier.NotifyUrgent(ctx, describeError(err))
}

func (a *cliApp) run(ctx context.Context) {
	a.showRecipes(ctx)

	uiCh := a.ui.InputChan()
	for {
		var input string
		select {
		case <-ctx.Done():
			return
		case v, ok := <-uiCh:
			if !ok {
				return
			}
			input = v
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		intent, err := a.parser.Parse(ctx, input)
		if err != nil {
			a.log.Error("parsing input: %v", err)
			continue
		}

		a.log.Debug("intent: %s (args=%q)", intent.Type, intent.Args)
		if quit := a.handleIntent(ctx, intent); quit {
			return
		}
	}
}

// handleIntent runs one command and reports whether the REPL should exit.
func (a *cliApp) handleIntent(ctx context.Context, intent *domain.Intent) bool {
	switch intent.Type {
	case domain.IntentHelp:
		a.showHelp()
	case domain.IntentListRecipes:
		a.showRecipes(ctx)
	case domain.IntentSearch:
		a.search(ctx, intent.Arg(0))
	case domain.IntentShowRecipe:
		a.showRecipe(ctx, intent.Arg(0))
	case domain.IntentScale:
		a.scale(ctx, intent.Arg(0), intent.Arg(1))
	case domain.IntentAddToCombo:
		a.addToCombo(ctx, intent.Arg(0), intent.Arg(1))
	case domain.IntentRemoveFromCombo:
		a.removeFromCombo(ctx, intent.Arg(0))
	case domain.IntentMultiplier:
		a.setMultiplier(ctx, intent.Arg(0), intent.Arg(1))
	case domain.IntentSelection:
		a.showSelection()
	case domain.IntentShoppingList:
		a.showShoppingList(ctx)
	case domain.IntentBreakdown:
		a.showBreakdown(ctx)
	case domain.IntentClearCombo:
		a.engine.ClearCombo()
		a.say(ctx, "Combination cleared.")
	case domain.IntentStats:
		a.showStats(ctx)
	case domain.IntentExport:
		a.exportRecipes(ctx, intent.Arg(0))
	case domain.IntentImport:
		a.importRecipes(ctx, intent.Arg(0))
	case domain.IntentQuit:
		a.say(ctx, "Bye!")
		return true
	case domain.IntentUnknown:
		a.ui.PrintHint(fmt.Sprintf("Didn't catch %q. Type 'help' for commands.", intent.Arg(0)))
	}
	return false
}

func (a *cliApp) showRecipes(ctx context.Context) {
	recipes, err := a.engine.ListRecipes(ctx)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintHint("No recipes yet. Import a backup with 'import <file>'.")
		return
	}
	a.printListing("Recipes:", recipes)
	a.ui.PrintHint("Show one by number, or 'add 1' to start a combination.")
}

func (a *cliApp) search(ctx context.Context, query string) {
	recipes, err := a.engine.Search(ctx, query)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	if len(recipes) == 0 {
		a.ui.PrintHint(fmt.Sprintf("No recipes match %q.", query))
		return
	}
	a.printListing(fmt.Sprintf("Matching %q:", query), recipes)
}

func (a *cliApp) printListing(title string, recipes []*domain.Recipe) {
	a.ui.PrintTitle(title)
	for i, r := range recipes {
		a.ui.PrintLine(fmt.Sprintf("[%d] %s", i+1, r.Title))
		a.ui.PrintHint(fmt.Sprintf("    %s · serves %d · %d ingredients", r.Category, r.Servings, len(r.Ingredients)))
	}
	a.ui.Println("")
}

func (a *cliApp) showRecipe(ctx context.Context, ref string) {
	r, err := a.engine.Resolve(ctx, ref)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.ui.PrintBlock(renderRecipe(r))
}

func (a *cliApp) scale(ctx context.Context, ref, studentsArg string) {
	students := scaler.MinStudents
	if studentsArg != "" {
		n, err := strconv.Atoi(studentsArg)
		if err != nil {
			a.fail(ctx, fmt.Errorf("%w: %q is not a student count", domain.ErrValidation, studentsArg))
			return
		}
		students = n
	}
	s, err := a.engine.Scale(ctx, ref, students)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.ui.PrintBlock(renderScaled(s))
}

func (a *cliApp) addToCombo(ctx context.Context, ref, multArg string) {
	m, err := engine.ParseMultiplier(multArg)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	r, err := a.engine.AddToCombo(ctx, ref, m)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.say(ctx, fmt.Sprintf("Added %s.", display.SelectionLabel(domain.SelectedRecipe{Title: r.Title, Multiplier: m})))
}

func (a *cliApp) removeFromCombo(ctx context.Context, ref string) {
	r, ok, err := a.engine.RemoveFromCombo(ctx, ref)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	if !ok {
		a.ui.PrintHint(fmt.Sprintf("%s is not in the combination.", r.Title))
		return
	}
	a.say(ctx, fmt.Sprintf("Removed %s.", r.Title))
}

func (a *cliApp) setMultiplier(ctx context.Context, ref, multArg string) {
	m, err := engine.ParseMultiplier(multArg)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	r, ok, err := a.engine.SetMultiplier(ctx, ref, m)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	if !ok {
		a.ui.PrintHint(fmt.Sprintf("%s is not in the combination. Use 'add' first.", r.Title))
		return
	}
	a.say(ctx, fmt.Sprintf("Now using %s.", display.SelectionLabel(domain.SelectedRecipe{Title: r.Title, Multiplier: m})))
}

func (a *cliApp) showSelection() {
	sum := a.engine.Combination().Summary()
	if sum.TotalRecipes == 0 {
		a.ui.PrintHint("No recipes combined yet.")
		return
	}
	a.ui.PrintTitle("Combination:")
	for _, r := range sum.Recipes {
		a.ui.PrintLine(fmt.Sprintf("• %s (%s servings)", display.SelectionLabel(r),
			strconv.FormatFloat(r.AdjustedServings, 'f', -1, 64)))
	}
	a.ui.PrintHint(fmt.Sprintf("%d ingredients, %d measured", sum.TotalIngredients, sum.QuantifiedIngredients))
}

func (a *cliApp) showShoppingList(ctx context.Context) {
	text, err := a.engine.ShoppingList()
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.ui.PrintBlock(text)
}

func (a *cliApp) showBreakdown(ctx context.Context) {
	text, err := a.engine.Breakdown()
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.ui.PrintBlock(text)
}

func (a *cliApp) showStats(ctx context.Context) {
	st, err := a.engine.Stats(ctx)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.ui.PrintBlock(renderStats(st))
}

func (a *cliApp) exportRecipes(ctx context.Context, path string) {
	if path == "" {
		path = backupFileName(time.Now())
	}
	var buf bytes.Buffer
	bundle, err := a.engine.Export(ctx, &buf)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		a.fail(ctx, fmt.Errorf("writing %s: %w", path, err))
		return
	}
	a.say(ctx, fmt.Sprintf("Exported %d recipes to %s.", bundle.TotalRecipes, path))
}

func (a *cliApp) importRecipes(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	defer f.Close()

	res, err := a.engine.Import(ctx, f)
	if err != nil {
		a.fail(ctx, err)
		return
	}
	a.say(ctx, fmt.Sprintf("Imported %d of %d recipes (%d failed).", res.Successful, res.Total, res.Failed))
}

func (a *cliApp) showHelp() {
	a.ui.PrintTitle("Commands:")
	a.ui.PrintLine("  list / recipes        Show all recipes")
	a.ui.PrintLine("  search <text>         Find recipes by title")
	a.ui.PrintLine("  1, 2, 3...            Show a recipe from the last list")
	a.ui.PrintLine("  scale <n> for <k>     Scale recipe n for k students (1-100)")
	a.ui.PrintLine("  add <n> [x2]          Add a recipe to the combination")
	a.ui.PrintLine("  remove <n>            Remove it again")
	a.ui.PrintLine("  mult <n> <m>          Change a recipe's multiplier (2, 1.5, 1/2)")
	a.ui.PrintLine("  combo                 Show the combination")
	a.ui.PrintLine("  shop                  Print the shopping list")
	a.ui.PrintLine("  breakdown             Show where each ingredient comes from")
	a.ui.PrintLine("  clear                 Empty the combination")
	a.ui.PrintLine("  stats                 Library statistics")
	a.ui.PrintLine("  help                  Show this message")
	a.ui.PrintLine("  quit / exit           Leave")
	a.ui.Println("")
	a.ui.PrintTitle("Admin (run with --user chef, admin, instructor...):")
	a.ui.PrintLine("  export [file]         Save every recipe to a JSON backup")
	a.ui.PrintLine("  import <file>         Load recipes from a JSON backup")
}

// describeError turns domain errors into short user-facing lines.
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return "That needs an admin. Restart with --user set to an admin name."
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Sprintf("Not found: %v", err)
	case errors.Is(err, domain.ErrValidation):
		return fmt.Sprintf("Invalid: %v", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
