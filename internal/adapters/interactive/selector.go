package interactive

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/manifoldco/promptui"
	"github.com/sahilm/fuzzy"

	"github.com/tetu-io/vaultctl/internal/domain/config"
	"github.com/tetu-io/vaultctl/internal/usecase"
)

// SelectorAdapter handles interactive selection and confirmation
type SelectorAdapter struct {
	config *config.RuntimeConfig
}

// NewSelectorAdapter creates a new selector adapter
func NewSelectorAdapter(cfg *config.RuntimeConfig) *SelectorAdapter {
	return &SelectorAdapter{config: cfg}
}

// SelectArtifact asks the user to pick one of the artifact names.
func (s *SelectorAdapter) SelectArtifact(_ context.Context, names []string, prompt string) (string, error) {
	if len(names) == 0 {
		return "", fmt.Errorf("no artifacts to select from")
	}
	if len(names) == 1 {
		return names[0], nil
	}
	if s.config.NonInteractive {
		return "", fmt.Errorf("%d artifacts match, pass the qualified name (non-interactive mode)", len(names))
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "▸ {{ . | cyan }}",
		Inactive: "  {{ . | faint }}",
		Selected: "✓ {{ . | green }}",
		Help:     color.New(color.FgYellow).Sprint("Use arrow keys to navigate, Enter to select"),
	}

	promptSelect := promptui.Select{
		Label:             prompt,
		Items:             names,
		Templates:         templates,
		Size:              10,
		StartInSearchMode: true,
		Searcher:          createFuzzySearchFunc(names),
	}

	index, _, err := promptSelect.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return names[index], nil
}

// Confirm asks a yes/no question. Non-interactive mode always confirms.
func (s *SelectorAdapter) Confirm(message string) (bool, error) {
	if s.config.NonInteractive {
		return true, nil
	}

	prompt := promptui.Prompt{
		Label:     message,
		IsConfirm: true,
	}
	if _, err := prompt.Run(); err != nil {
		if err == promptui.ErrAbort {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// createFuzzySearchFunc creates a fuzzy search function for promptui
func createFuzzySearchFunc(items []string) func(input string, index int) bool {
	return func(input string, index int) bool {
		if input == "" {
			return true
		}

		input = strings.ToLower(input)
		item := strings.ToLower(items[index])
		if strings.Contains(item, input) {
			return true
		}

		return len(fuzzy.Find(input, []string{item})) > 0
	}
}

var (
	_ usecase.ArtifactSelector = (*SelectorAdapter)(nil)
	_ usecase.Confirmer        = (*SelectorAdapter)(nil)
)
