package main

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

// clueID builds the composite "<category>-<clue>" identifier.
func clueID(categoryIndex, clueIndex int) string {
	return fmt.Sprintf("%d-%d", categoryIndex, clueIndex)
}

// clueValue returns the point value for a clue at the given position.
func clueValue(position int) int {
	return (position + 1) * ClueValueStep
}

// buildBoard turns API responses into categories and a clue store.
// Each category draws up to CluesPerCategory clues at random; the input is not modified.
func buildBoard(results []APICategory, intn func(int) int) ([]Category, map[string]Clue) {
	categories := make([]Category, 0, len(results))
	clues := make(map[string]Clue, len(results)*CluesPerCategory)

	for categoryIndex, result := range results {
		picked := shuffle(slices.Clone(result.Clues), intn)
		picked = picked[:min(CluesPerCategory, len(picked))]

		category := Category{Title: result.Title, Clues: make([]string, 0, len(picked))}
		for index, apiClue := range picked {
			id := clueID(categoryIndex, index)
			category.Clues = append(category.Clues, id)
			clues[id] = Clue{
				ID:       id,
				Question: apiClue.Question,
				Answer:   apiClue.Answer,
				Value:    clueValue(index),
			}
		}
		categories = append(categories, category)
	}
	return categories, clues
}

// renderCategory lays out one board column.
func renderCategory(category Category, clues map[string]Clue) Column {
	return Column{
		Title: category.Title,
		Buttons: lo.Map(category.Clues, func(id string, _ int) Button {
			return Button{ClueID: id, Value: clues[id].Value}
		}),
	}
}

// renderBoard lays out every column in category order.
func renderBoard(categories []Category, clues map[string]Clue) []Column {
	return lo.Map(categories, func(c Category, _ int) Column {
		return renderCategory(c, clues)
	})
}
