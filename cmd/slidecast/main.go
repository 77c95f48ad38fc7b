package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/slidecast/slidecast"
)

var (
	flagVerbose     bool
	flagOrientation string
	flagTheme       string
	flagModel       string
	flagMock        bool
	flagTables      []string
	flagFontDir     string
)

func main() {
	// .env is optional; environment variables win over it.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "slidecast",
		Short:   "Turn documents into narrated slide videos",
		Version: slidecast.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "info"
			if flagVerbose {
				level = "debug"
			}
			slidecast.SetLogger(slidecast.ConsoleLogger(level))
		},
	}
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&flagOrientation, "orientation", "", "landscape or portrait (default from config)")
	root.PersistentFlags().StringVar(&flagTheme, "theme", "", "dark or light (default from config)")
	root.PersistentFlags().StringVar(&flagFontDir, "font-dir", "", "extra directory to scan for fonts")

	root.AddCommand(newGenerateCmd(), newExportCmd(), newStoryboardCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadPrefs merges the config file with command-line overrides.
func loadPrefs() slidecast.Preferences {
	prefs := slidecast.DefaultPreferences()
	if path, err := slidecast.PreferencesPath(); err == nil {
		if p, err := slidecast.LoadPreferences(path); err == nil {
			prefs = p
		}
	}
	if flagOrientation != "" {
		prefs.Orientation = slidecast.NormalizeOrientation(slidecast.Orientation(flagOrientation))
	}
	if flagTheme != "" {
		prefs.Theme = slidecast.NormalizeTheme(slidecast.Theme(flagTheme))
	}
	if flagFontDir != "" {
		prefs.FontDir = flagFontDir
	}
	if flagModel != "" {
		prefs.Model = flagModel
	}
	return prefs
}

func newRenderer(prefs slidecast.Preferences) *slidecast.FrameRenderer {
	var fonts *slidecast.FontCache
	if prefs.FontDir != "" {
		fonts = slidecast.NewFontCache(prefs.FontDir)
	} else {
		fonts = slidecast.NewFontCache()
	}
	engine := slidecast.NewLayoutEngine(fonts)
	heroes := slidecast.NewHeroCache(&slidecast.HTTPImageFetcher{}, slidecast.EvictOldest{}, 32)
	return slidecast.NewFrameRenderer(engine, heroes)
}

func newSummarizer(prefs slidecast.Preferences) (slidecast.Summarizer, error) {
	if flagMock {
		return slidecast.MockSummarizer{}, nil
	}
	return slidecast.NewOpenAISummarizer(slidecast.SummarizerConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		Model:   prefs.Model,
		BaseURL: os.Getenv("OPENAI_BASE_URL"),
	})
}
