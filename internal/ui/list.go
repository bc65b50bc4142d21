package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/lyrx/internal/models"
)

var _ list.Item = candidateItem{}

// candidateItem wraps [models.Candidate] to implement [list.Item].
type candidateItem struct {
	index     int
	candidate models.Candidate
}

func (i candidateItem) FilterValue() string { return i.candidate.Name }
func (i candidateItem) Title() string       { return i.candidate.Name }
func (i candidateItem) Description() string {
	if i.candidate.URL == "" {
		return fmt.Sprintf("id %d", i.candidate.ID)
	}
	return fmt.Sprintf("%s • id %d", i.candidate.URL, i.candidate.ID)
}

func candidateItems(candidates []models.Candidate) []list.Item {
	items := make([]list.Item, len(candidates))
	for i, c := range candidates {
		items[i] = candidateItem{index: i, candidate: c}
	}
	return items
}
