package main

import (
	"fmt"
	"os"
	"time"

	"syncpath/internal/app"
	"syncpath/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var verbose bool

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Canonicalize").
func newApp(operation string) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewApp(cfg, operation, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

var rootCmd = &cobra.Command{
	Use:          "syncpath",
	Short:        "Canonicalize and resolve paths the way a file synchronizer sees them",
	SilenceUsage: true,
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir:     %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:      %s\n", cfg.LogDir)
		fmt.Printf("Platform:     %s\n", cfg.Platform)
		fmt.Printf("Max Symlinks: %d\n", cfg.MaxSymlinks)
		fmt.Printf("Database:     %s %s\n", cfg.Database.Type, cfg.Database.DataDir)
		fmt.Printf("Filesystem:   %s %s\n", cfg.Filesystem.Type, cfg.Filesystem.Root)
		return nil
	},
}

// canon command
var canonCmd = &cobra.Command{
	Use:   "canon [PATH]",
	Short: "Print the canonical absolute form of a path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := "."
		if len(args) == 1 {
			raw = args[0]
		}

		a, err := newApp("Canonicalize")
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Canonicalize(raw)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

// resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve BASE [REL]",
	Short: "Find the real directory and leaf name of BASE/REL",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		noFollow, _ := cmd.Flags().GetBool("no-follow")
		physical, _ := cmd.Flags().GetBool("physical")
		rel := ""
		if len(args) == 2 {
			rel = args[1]
		}

		a, err := newApp("Resolve")
		if err != nil {
			return err
		}
		defer a.Close()

		loc, err := a.Resolve(args[0], rel, !noFollow, physical)
		if err != nil {
			return err
		}
		if isTerminal() {
			fmt.Printf("dir:  %s\nname: %s\n", loc.Dir, loc.Name)
			return nil
		}
		fmt.Printf("%s\t%s\n", loc.Dir, loc.Name)
		return nil
	},
}

// suffix command
var suffixCmd = &cobra.Command{
	Use:   "suffix A B",
	Short: "Print the shortest suffixes that tell two paths apart",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("DifferentSuffix")
		if err != nil {
			return err
		}
		defer a.Close()

		sa, sb, err := a.DifferentSuffix(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Println(sa)
		fmt.Println(sb)
		return nil
	},
}

// shadow command
var shadowCmd = &cobra.Command{
	Use:   "shadow PATH",
	Short: "Print the AppleDouble sibling (or resource fork) of a path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fork, _ := cmd.Flags().GetBool("fork")
		operation := "ShadowSibling"
		if fork {
			operation = "ResourceFork"
		}

		a, err := newApp(operation)
		if err != nil {
			return err
		}
		defer a.Close()

		p, err := a.Shadow(args[0], fork)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("History")
		if err != nil {
			return err
		}
		defer a.Close()

		ops, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(ops) == 0 {
			fmt.Println("No operations recorded.")
			return nil
		}

		if isTerminal() {
			fmt.Printf("%-6s  %-15s  %-19s  %-7s  %-8s  %s\n", "ID", "OPERATION", "STARTED", "STATUS", "DURATION", "RESULT")
		}
		for _, op := range ops {
			duration := ""
			if op.FinishedAt.Valid {
				duration = op.Duration().Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%-5d  %-15s  %s  %-7s  %-8s  %s\n",
				op.ID,
				op.Operation,
				op.StartedAt.Local().Format("2006-01-02 15:04:05"),
				op.Status,
				duration,
				op.Result,
			)
		}
		return nil
	},
}

var historyBackupCmd = &cobra.Command{
	Use:   "backup DEST",
	Short: "Copy the operation journal to DEST",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("BackupJournal")
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.BackupJournal(args[0]); err != nil {
			return err
		}
		fmt.Printf("Journal copied to %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Copy log lines to stderr")

	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// history subcommands
	historyCmd.AddCommand(historyBackupCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(canonCmd)
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().Bool("no-follow", false, "Do not follow a symbolic link in the final component")
	resolveCmd.Flags().Bool("physical", false, "Also resolve symbolic links among the parent directories")
	rootCmd.AddCommand(suffixCmd)
	rootCmd.AddCommand(shadowCmd)
	shadowCmd.Flags().Bool("fork", false, "Print the resource fork path instead of the ._ sibling")
	rootCmd.AddCommand(historyCmd)
}
