// Package view renders the client state for a terminal.
package view

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/whattoeat/backend/internal/client"
	"github.com/whattoeat/backend/internal/models"
	"github.com/whattoeat/backend/internal/state"
)

const (
	MsgNoEntries   = "No entries found."
	MsgQuota       = "Daily quota has been reached, please come back tomorrow!"
	MsgNoRecipes   = "No recipes found. Maybe try a different ingredients?"
	MsgRecipeError = "An error occurred while fetching the recipe details."
	MsgLoading     = "Loading..."
	MsgSignedOut   = "You are not signed in. Run `whattoeat login` to continue."

	// GroceryColumnSize is the number of grocery rows per column.
	GroceryColumnSize = 5

	columnGap = 4
)

var (
	heading = color.New(color.Bold)
	faint   = color.New(color.Faint)
	success = color.New(color.FgGreen)
	warning = color.New(color.FgYellow)
	failure = color.New(color.FgRed)
	heart   = color.New(color.FgRed)
)

// GroceryList prints the items as checkbox rows, five rows per column.
func GroceryList(w io.Writer, items []models.GroceryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, MsgNoEntries)
		return
	}

	var columns [][]string
	for start := 0; start < len(items); start += GroceryColumnSize {
		end := start + GroceryColumnSize
		if end > len(items) {
			end = len(items)
		}
		var cells []string
		for _, item := range items[start:end] {
			cells = append(cells, groceryCell(item))
		}
		columns = append(columns, cells)
	}

	widths := make([]int, len(columns))
	for c, cells := range columns {
		for _, cell := range cells {
			if n := utf8.RuneCountInString(cell); n > widths[c] {
				widths[c] = n
			}
		}
	}

	rows := len(columns[0])
	for r := 0; r < rows; r++ {
		var line strings.Builder
		for c, cells := range columns {
			if r >= len(cells) {
				break
			}
			cell := cells[r]
			if c < len(columns)-1 {
				pad := widths[c] - utf8.RuneCountInString(cell) + columnGap
				cell += strings.Repeat(" ", pad)
			}
			line.WriteString(styleCell(items[c*GroceryColumnSize+r], cell))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

func groceryCell(item models.GroceryItem) string {
	box := "[ ]"
	if item.Checked {
		box = "[x]"
	}
	cell := box + " " + item.Title
	if state.IsPending(item) {
		cell += " (saving)"
	}
	return cell
}

func styleCell(item models.GroceryItem, cell string) string {
	switch {
	case state.IsPending(item):
		return faint.Sprint(cell)
	case item.Checked:
		return success.Sprint(cell)
	}
	return cell
}

// GroceryTable prints one item per line with its id, for commands that take
// an id argument.
func GroceryTable(w io.Writer, items []models.GroceryItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, MsgNoEntries)
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\n", faint.Sprint(item.ID), groceryCell(item))
	}
}

// RecipeCards prints search results with a filled heart for favorites.
func RecipeCards(w io.Writer, cards []state.RecipeCard) {
	for _, card := range cards {
		mark := "♡"
		if card.Favorited {
			mark = heart.Sprint("♥")
		}
		fmt.Fprintf(w, "%s %d\t%s\n", mark, card.ID, card.Title)
	}
}

// SearchResults prints the outcome of a recipe search. A quota error leaves
// the result list empty.
func SearchResults(w io.Writer, cards []state.RecipeCard, err error) {
	if err != nil {
		Notice(w, err)
		return
	}
	if len(cards) == 0 {
		fmt.Fprintln(w, warning.Sprint(MsgNoRecipes))
		return
	}
	RecipeCards(w, cards)
}

// Notice prints the user facing message for a recipe lookup error.
func Notice(w io.Writer, err error) {
	switch {
	case err == nil:
	case errors.Is(err, client.ErrQuotaExceeded):
		fmt.Fprintln(w, warning.Sprint(MsgQuota))
	case errors.Is(err, state.ErrNoSession), errors.Is(err, client.ErrUnauthorized):
		fmt.Fprintln(w, MsgSignedOut)
	default:
		fmt.Fprintln(w, failure.Sprint(MsgRecipeError))
	}
}

func Favorites(w io.Writer, favs []models.FavoriteRecipe) {
	if len(favs) == 0 {
		fmt.Fprintln(w, MsgNoEntries)
		return
	}
	for _, fav := range favs {
		fmt.Fprintf(w, "%s %d\t%s\n", heart.Sprint("♥"), fav.ID, fav.Title)
	}
}

// Recipe prints the details of a recipe.
func Recipe(w io.Writer, r *models.RecipeDetail, favorited bool) {
	title := r.Title
	if favorited {
		title += " " + heart.Sprint("♥")
	}
	heading.Fprintln(w, title)
	fmt.Fprintf(w, "Ready in %d minutes · %d servings · %d likes · health score %.0f\n",
		r.ReadyInMinutes, r.Servings, r.AggregateLikes, r.HealthScore)
	if len(r.Diets) > 0 {
		fmt.Fprintf(w, "Diets: %s\n", strings.Join(r.Diets, ", "))
	}
	if len(r.Cuisines) > 0 {
		fmt.Fprintf(w, "Cuisines: %s\n", strings.Join(r.Cuisines, ", "))
	}

	if len(r.ExtendedIngredients) > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Ingredients")
		for _, ing := range r.ExtendedIngredients {
			fmt.Fprintf(w, "  - %s\n", ing.GroceryTitle())
		}
	}

	steps := 0
	for _, block := range r.AnalyzedInstructions {
		steps += len(block.Steps)
	}
	if steps > 0 {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Instructions")
		for _, block := range r.AnalyzedInstructions {
			if block.Name != "" {
				fmt.Fprintf(w, "  %s\n", block.Name)
			}
			for _, step := range block.Steps {
				fmt.Fprintf(w, "  %d. %s\n", step.Number, step.Step)
			}
		}
	} else if r.Instructions != "" {
		fmt.Fprintln(w)
		heading.Fprintln(w, "Instructions")
		fmt.Fprintf(w, "  %s\n", r.Instructions)
	}
}

// Welcome greets the session user.
func Welcome(w io.Writer, sess models.Session) {
	switch sess.Status {
	case models.SessionLoading:
		fmt.Fprintln(w, MsgLoading)
	case models.SessionAuthenticated:
		name := sess.User.Name
		if name == "" {
			name = sess.User.Email
		}
		fmt.Fprintf(w, "Welcome, %s!\n", heading.Sprint(name))
	default:
		fmt.Fprintln(w, MsgSignedOut)
	}
}
