package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/scribble/internal/config"
)

var (
	verbose     bool
	adapterFlag string
	pathFlag    string
	slotFlag    string
	langFlag    string

	cfg = config.DefaultConfig()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scribble",
	Short: "Quick notes, typed or dictated",
	Long: `scribble keeps short free-text notes, newest first, in a single slot of a
key-value store (a JSON file by default). Notes can be typed or dictated
through an external speech recognizer, and searched case-insensitively.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded

		flags := cmd.Flags()
		if flags.Changed("adapter") {
			cfg.Storage.Adapter = adapterFlag
		}
		if flags.Changed("path") {
			cfg.Storage.Path = config.ExpandHome(pathFlag)
		}
		if flags.Changed("slot") {
			cfg.Storage.Slot = slotFlag
		}
		if flags.Changed("lang") {
			cfg.Dictation.Language = langFlag
		}

		level := cfg.Log.LogLevel()
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	pf.StringVar(&adapterFlag, "adapter", "", "Storage adapter (fs, badger, sqlite, memory)")
	pf.StringVar(&pathFlag, "path", "", "Storage location (directory, or database file for sqlite)")
	pf.StringVar(&slotFlag, "slot", "", "Key the notes are stored under")
	pf.StringVar(&langFlag, "lang", "", "Dictation language (e.g. pt-BR)")
}
