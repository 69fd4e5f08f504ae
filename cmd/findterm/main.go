package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/findterm/internal/config"
	"github.com/unkn0wn-root/findterm/internal/find"
	"github.com/unkn0wn-root/findterm/internal/history"
	"github.com/unkn0wn-root/findterm/internal/storage"
	"github.com/unkn0wn-root/findterm/internal/telemetry"
	"github.com/unkn0wn-root/findterm/internal/theme"
	"github.com/unkn0wn-root/findterm/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	var (
		filePath    string
		themeName   string
		commitDelay time.Duration
		showVersion bool
	)

	flag.Usage = func() {
		fmt.Fprint(os.Stderr, heredoc.Doc(`
			findterm - find and replace in your terminal

			Usage:
			  findterm [flags] [file]

			Keys:
			  ctrl+f    open find
			  ctrl+h    open replace
			  f3        next match
			  shift+f3  previous match
			  alt+r     toggle regex
			  alt+c     toggle case sensitivity
			  alt+w     toggle whole word
			  alt+l     toggle find in selection
			  esc       close find
			  ctrl+q    quit

			Flags:
		`))
		flag.PrintDefaults()
	}

	flag.StringVar(&filePath, "file", "", "Path to the file to open")
	flag.StringVar(&themeName, "theme", "", "Color theme (dark, light)")
	flag.DurationVar(&commitDelay, "commit-delay", 0, "History commit delay (0 uses settings)")
	flag.BoolVar(&showVersion, "version", false, "Show findterm version")
	flag.Parse()

	if showVersion {
		fmt.Printf("findterm %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
		os.Exit(0)
	}

	if filePath == "" && flag.NArg() > 0 {
		filePath = flag.Arg(0)
	}

	var initialContent string
	if filePath != "" {
		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Fatalf("read file: %v", err)
		}
		filePath = filepath.Clean(filePath)
		initialContent = string(data)
	}

	settings, err := config.LoadSettings()
	if err != nil {
		log.Printf("load settings: %v", err)
	}
	if themeName == "" {
		themeName = settings.Theme
	}
	if commitDelay == 0 {
		commitDelay = time.Duration(settings.CommitDelayMillis) * time.Millisecond
	}

	if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
		log.Printf("config dir: %v", err)
	}

	navigator, err := history.NewPersistentNavigator(
		history.NewStore(config.HistoryPath()),
		settings.HistoryLimit,
	)
	if err != nil {
		log.Printf("load history: %v", err)
		navigator = history.NewNavigator(settings.HistoryLimit)
	}

	ctx := context.Background()
	tracer, shutdown, err := telemetry.Setup(ctx, telemetry.ConfigFromEnv(os.Getenv))
	if err != nil {
		log.Printf("telemetry: %v", err)
	}
	if shutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Printf("telemetry shutdown: %v", err)
			}
		}()
	}

	model := ui.NewModel(ui.Config{
		InitialContent: initialContent,
		Theme:          theme.ForName(themeName),
		Storage:        storage.NewFileStore(config.OptionsPath()),
		History:        navigator,
		Commit:         find.NewDelayedScheduler(commitDelay),
		Tracer:         tracer,
	})
	defer model.Close()

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
