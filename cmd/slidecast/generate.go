package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slidecast/slidecast"
)

func newGenerateCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate <document>",
		Short: "Synthesize a slide deck from a document",
		Long: `Extracts text from a PDF, Markdown or plain-text document, asks the
summarizer for slide candidates and writes the normalized deck as JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := loadPrefs()

			doc, err := slidecast.LoadDocument(args[0])
			if err != nil {
				return err
			}
			tables, err := slidecast.LoadTables(flagTables)
			if err != nil {
				return err
			}
			summarizer, err := newSummarizer(prefs)
			if err != nil {
				return err
			}

			deck, err := slidecast.Synthesize(cmd.Context(), summarizer, slidecast.SynthesisInput{
				Pages:       doc.Pages,
				Orientation: prefs.Orientation,
				Tables:      tables,
			})
			if err != nil {
				return err
			}

			state := slidecast.State{
				Deck:        deck,
				Orientation: prefs.Orientation,
				Theme:       prefs.Theme,
				SourceName:  doc.Name,
			}
			if err := slidecast.SaveDeck(output, state); err != nil {
				return err
			}
			fmt.Printf("wrote %d slides to %s\n", len(deck), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "deck.json", "deck output path")
	cmd.Flags().StringVar(&flagModel, "model", "", "summarizer model override")
	cmd.Flags().BoolVar(&flagMock, "mock", false, "use the offline mock summarizer")
	cmd.Flags().StringSliceVar(&flagTables, "table", nil, "CSV or JSON data file for chart detection (repeatable)")
	return cmd
}
