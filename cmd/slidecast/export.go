package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/slidecast/slidecast"
)

func newExportCmd() *cobra.Command {
	var (
		output     string
		fps        int
		fadeFrames int
	)

	cmd := &cobra.Command{
		Use:   "export <deck.json>",
		Short: "Render a saved deck to video",
		Long: `Renders every slide of a saved deck into an H.264 MP4 (via ffmpeg on
PATH) or a Motion-JPEG AVI fallback, then saves it through the local
file bridge. Ctrl-C cancels cleanly without leaving partial output.`,
		Args: cobra.ExactArgs(1),
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

			session := slidecast.NewExportSession(newRenderer(prefs))

			// Ctrl-C cancels the in-flight phase.
			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, os.Interrupt)
			defer signal.Stop(sigc)
			go func() {
				<-sigc
				session.Cancel()
			}()

			bar := progressbar.NewOptions(100,
				progressbar.OptionSetDescription("rendering"),
				progressbar.OptionClearOnFinish(),
			)
			err = session.Export(cmd.Context(), state.Deck, slidecast.VideoOptions{
				Orientation: state.Orientation,
				Theme:       state.Theme,
				FPS:         fps,
				FadeFrames:  fadeFrames,
				OnProgress:  func(pct int) { _ = bar.Set(pct) },
			})
			if err != nil {
				if slidecast.IsAbort(err) {
					fmt.Fprintln(os.Stderr, "export cancelled")
					return nil
				}
				return err
			}

			name := output
			if name == "" {
				name = defaultOutputName(state, session)
			}
			bridge := &slidecast.FileSaveBridge{Dir: filepath.Dir(name)}
			err = session.Save(bridge, filepath.Base(name), slidecast.SaveOptions{})
			if err != nil {
				if slidecast.IsAbort(err) {
					fmt.Fprintln(os.Stderr, "save cancelled")
					return nil
				}
				return err
			}
			fmt.Printf("wrote %s\n", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "video output path (default derived from the deck)")
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	cmd.Flags().IntVar(&fadeFrames, "fade-frames", 15, "cross-fade length between slides, in frames")
	return cmd
}

func defaultOutputName(state slidecast.State, session *slidecast.ExportSession) string {
	base := strings.TrimSuffix(state.SourceName, filepath.Ext(state.SourceName))
	if base == "" {
		base = "slidecast"
	}
	ext := ".mp4"
	if _, mime, ok := session.Bytes(); ok && mime == "video/x-msvideo" {
		ext = ".avi"
	}
	return base + ext
}
