package commands

import (
	"StudySync/internal/cli/service"
	"StudySync/internal/config"
	"context"
	"fmt"
)

type deckSummary struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	CardCount         int    `json:"cardCount"`
	MasteryPercentage int    `json:"masteryPercentage"`
}

type decksCmd struct{}

func (decksCmd) Name() string        { return "decks" }
func (decksCmd) Description() string { return "List your flashcard decks" }
func (decksCmd) Usage() string       { return "decks" }

func (decksCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	client := apiClient(cfg)
	if client.Token == "" {
		return service.ErrNotLoggedIn
	}

	var decks []deckSummary
	if _, err := client.GetJSON(ctx, "/api/flashcard-decks", &decks); err != nil {
		return err
	}
	if len(decks) == 0 {
		fmt.Fprintln(Out, "No decks yet")
		return nil
	}
	for _, d := range decks {
		fmt.Fprintf(Out, "%-36s  %s (%d cards, %d%% mastered)\n", d.ID, d.Title, d.CardCount, d.MasteryPercentage)
	}
	return nil
}

func init() { Register(sectionStudy, decksCmd{}) }
