package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/giygas/knowyourdrug/advisory"
	"github.com/giygas/knowyourdrug/config"
	"github.com/giygas/knowyourdrug/data"
	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interactionsparser"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
	"github.com/giygas/knowyourdrug/resolver"
	"github.com/giygas/knowyourdrug/scheduler"
	"github.com/giygas/knowyourdrug/server"
	"github.com/spf13/cobra"
)

const (
	exitInsufficientSelection = 2
	shutdownTimeout           = 30 * time.Second
	logDir                    = "logs"
)

// loadRegistry returns the built-in registry, or one loaded from source
func loadRegistry(ctx context.Context, source string) (*interactions.Registry, error) {
	if source == "" {
		return interactions.Default(), nil
	}

	dc := data.NewDataContainer()
	s := scheduler.NewScheduler(dc, interactionsparser.NewInteractionsParser(source), config.DefaultReloadTimes)
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return dc.GetRegistry(), nil
}

func checkCmd() *cobra.Command {
	var (
		drugs  []string
		source string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "check [drug...]",
		Short: "Check a selection of drugs for interactions",
		Example: `  knowyourdrug check --drug Aspirin --drug Warfarin
  knowyourdrug check Aspirin Ibuprofen Warfarin`,
		RunE: func(cmd *cobra.Command, args []string) error {
			selection := append(append([]string{}, drugs...), args...)

			registry, err := loadRegistry(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("failed to load interaction table: %w", err)
			}

			report, err := resolver.New(registry).Resolve(selection)
			if err != nil {
				if errors.Is(err, resolver.ErrInsufficientSelection) {
					return &exitError{code: exitInsufficientSelection, err: err}
				}
				return err
			}

			summary := advisory.Summarize(report)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(summary)
			}
			printSummary(cmd.OutOrStdout(), summary)
			return nil
		},
	}

	cmd.Flags().StringArrayVarP(&drugs, "drug", "d", nil, "Drug to include in the check (repeatable)")
	cmd.Flags().StringVar(&source, "source", "", "Interaction table file or http(s) URL instead of the built-in table")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")

	return cmd
}

// printSummary writes one "SEVERITY: A + B" line per finding, then the overall advice
func printSummary(w io.Writer, s advisory.Summary) {
	fmt.Fprintf(w, "Checked %d pair(s) among: %s\n\n", s.PairsChecked, strings.Join(s.Drugs, ", "))

	for _, f := range s.Interactions {
		fmt.Fprintf(w, "%s: %s + %s\n", strings.ToUpper(f.Severity.String()), f.DrugA, f.DrugB)
	}
	if len(s.Interactions) > 0 {
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Highest severity: %s (%s)\n", s.HighestSeverity, s.Advice.Label)
	fmt.Fprintln(w, s.Advice.Message)
	if s.Advice.Caveat != "" {
		fmt.Fprintln(w, s.Advice.Caveat)
	}
	fmt.Fprintf(w, "\n%s\n", s.Disclaimer)
}

func drugsCmd() *cobra.Command {
	var (
		search, source string
		interacting    bool
	)

	cmd := &cobra.Command{
		Use:   "drugs",
		Short: "List the known drug names",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := loadRegistry(cmd.Context(), source)
			if err != nil {
				return fmt.Errorf("failed to load interaction table: %w", err)
			}

			needle := strings.ToLower(strings.TrimSpace(search))
			for _, name := range registry.AllKnownDrugs() {
				if interacting && !registry.HasInteractions(name) {
					continue
				}
				if needle == "" || strings.Contains(strings.ToLower(name), needle) {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Only list names containing this text (case-insensitive)")
	cmd.Flags().StringVar(&source, "source", "", "Interaction table file or http(s) URL instead of the built-in table")
	cmd.Flags().BoolVar(&interacting, "interacting", false, "Only list drugs that appear in at least one known interaction")

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: "Run the HTTP API. Settings are read from the environment, or from a .env file in\n" +
			"the working directory or next to the executable:\n\n  " +
			strings.Join(config.GetEnvVars(), "\n  "),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.LoadDotEnv(); err != nil {
				return fmt.Errorf("failed to read .env: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logging.Init(logging.Options{
				Dir:            logDir,
				Level:          logging.ParseLevel(cfg.LogLevel),
				RetentionWeeks: cfg.LogRetentionWeeks,
				MaxFileSize:    cfg.MaxLogFileSize,
			})
			defer logging.Close()

			return serve(cmd.Context(), cfg)
		},
	}
}

// serve runs the scheduler and the HTTP server until SIGINT or SIGTERM
func serve(ctx context.Context, cfg *config.Config) error {
	dataContainer := data.NewDataContainer()

	var parser interfaces.Parser
	if cfg.HasSource() {
		parser = interactionsparser.NewInteractionsParser(cfg.InteractionsSource)
	}

	sched := scheduler.NewScheduler(dataContainer, parser, cfg.ReloadTimes)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	srv := server.NewServer(cfg, dataContainer)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logging.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return <-errCh
}
