package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-31tone/config"
	"go-31tone/debug"
	"go-31tone/library"
	"go-31tone/midi"
	"go-31tone/player"
	"go-31tone/router"
	"go-31tone/shortcode"
	"go-31tone/slots"
	"go-31tone/theme"
	"go-31tone/tui"
)

var (
	flagPort    string
	flagLibrary string
	flagDebug   bool
)

var rootCmd = &cobra.Command{
	Use:   "go-31tone",
	Short: "31-EDO chord performance instrument",
	Long: `go-31tone plays 31-tone-per-octave chords on ordinary MIDI synths,
using one channel and one pitch bend per voice. Chords live on hotkey
slots described by shortcodes (sym/pairs/rand) or plain step lists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return perform()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPort, "port", "", "MIDI output port (substring match)")
	rootCmd.PersistentFlags().StringVar(&flagLibrary, "library", "", "chord table YAML path")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "log to ~/.config/go-31tone/debug.log")
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

// loadConfig merges the config file with command line flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flagPort != "" {
		cfg.OutputPort = flagPort
	}
	if flagLibrary != "" {
		cfg.LibraryPath = flagLibrary
	}
	if flagDebug {
		cfg.Debug = true
	}
	return cfg, nil
}

func loadRows(cfg *config.Config) ([]slots.Row, error) {
	if cfg.LibraryPath == "" {
		return library.Default(), nil
	}
	return library.Load(cfg.LibraryPath)
}

func perform() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Debug {
		if err := debug.Enable(); err != nil {
			return err
		}
		defer debug.Disable()
	}

	rows, err := loadRows(cfg)
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	engine := shortcode.New(rng)
	store := slots.NewStore(engine)
	applied := 0
	for _, res := range store.ApplyTable(rows) {
		if res.Key != 0 {
			applied++
		} else if res.Err != nil {
			fmt.Fprintf(os.Stderr, "row %d skipped: %v\n", res.Index+1, res.Err)
		}
	}
	debug.Log("main", "%d of %d rows bound", applied, len(rows))

	sender := midi.NewPortSender(cfg.OutputPort)
	p := player.New(store, engine, router.New(rng), sender, cfg.BendRangeSemitones)

	watcher := midi.NewPortWatcher(sender)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watcher.Run(ctx)

	pal := theme.Default()
	if cfg.PalettePath != "" {
		if loaded, err := theme.LoadGPL(cfg.PalettePath); err == nil {
			pal = loaded
		}
	}

	m := tui.NewModel(p, store, watcher, theme.New(pal), cfg.NoteNames)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		return err
	}

	// Belt and braces: nothing may keep sounding after the TUI is gone.
	p.Panic()
	return nil
}
