package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/slidecast/slidecast"
)

func newStoryboardCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "storyboard <deck.json>",
		Short: "Export a deck as a storyboard JSON with slide stills",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prefs := loadPrefs()

			state, err := slidecast.LoadDeck(args[0])
			if err != nil {
				return err
			}
			if flagOrientation != "" {
				state.Orientation = prefs.Orientation
			}
			if flagTheme != "" {
				state.Theme = prefs.Theme
			}

			sb, err := slidecast.BuildStoryboard(cmd.Context(), newRenderer(prefs), state)
			if err != nil {
				return err
			}
			data, err := sb.Marshal()
			if err != nil {
				return err
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %d stills to %s\n", len(sb.Slides), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "storyboard.json", "storyboard output path")
	return cmd
}
