package models

import (
	"fmt"
	"strconv"
	"strings"
)

// RecipeSummary is one complexSearch hit.
type RecipeSummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Image string `json:"image"`
}

type Ingredient struct {
	Name   string  `json:"name"`
	Image  string  `json:"image"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

// GroceryTitle formats an ingredient the way it is stored on the grocery list,
// e.g. "milk: 2 gal".
func (i Ingredient) GroceryTitle() string {
	amount := strconv.FormatFloat(i.Amount, 'f', -1, 64)
	return strings.TrimSpace(fmt.Sprintf("%s: %s %s", strings.TrimSpace(i.Name), amount, strings.TrimSpace(i.Unit)))
}

type StepIngredient struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

type InstructionStep struct {
	Number      int              `json:"number"`
	Step        string           `json:"step"`
	Ingredients []StepIngredient `json:"ingredients"`
}

type AnalyzedInstruction struct {
	Name  string            `json:"name"`
	Steps []InstructionStep `json:"steps"`
}

type RecipeDetail struct {
	ID                   int64                 `json:"id"`
	Title                string                `json:"title"`
	Image                string                `json:"image"`
	Servings             int                   `json:"servings"`
	ReadyInMinutes       int                   `json:"readyInMinutes"`
	AggregateLikes       int                   `json:"aggregateLikes"`
	HealthScore          float64               `json:"healthScore"`
	AnalyzedInstructions []AnalyzedInstruction `json:"analyzedInstructions"`
	Cuisines             []string              `json:"cuisines"`
	Diets                []string              `json:"diets"`
	Instructions         string                `json:"instructions"`
	ExtendedIngredients  []Ingredient          `json:"extendedIngredients"`
}

// RecipeSearchRequest mirrors the get-started form: free-text ingredients,
// an optional diet and whether pantry staples are ignored.
type RecipeSearchRequest struct {
	Query        string `json:"query"`
	Diet         string `json:"diet"`
	IgnorePantry bool   `json:"ignore_pantry"`
	Number       int    `json:"number"`
}

const DefaultRecipeResults = 9

func (r *RecipeSearchRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Query = strings.TrimSpace(r.Query)
	r.Diet = strings.TrimSpace(r.Diet)
	if r.Query == "" {
		errors["query"] = "Please select your ingredients"
	}
	if r.Number <= 0 {
		r.Number = DefaultRecipeResults
	} else if r.Number > 100 {
		errors["number"] = "Number must be at most 100"
	}

	return errors
}
