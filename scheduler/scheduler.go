// Package scheduler loads the interaction table at startup and reloads it from
// the configured source at fixed times of day.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/giygas/knowyourdrug/interactions"
	"github.com/giygas/knowyourdrug/interfaces"
	"github.com/giygas/knowyourdrug/logging"
	"github.com/giygas/knowyourdrug/metrics"
	"github.com/giygas/knowyourdrug/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

const (
	reloadTimeout     = 2 * time.Minute
	staleWarningAfter = 25 * time.Hour
)

// Scheduler publishes registry snapshots into the data store
type Scheduler struct {
	dataStore   interfaces.DataStore
	parser      interfaces.Parser // nil when only the built-in table is served
	validator   interfaces.DataValidator
	reloadTimes string
	scheduler   *gocron.Scheduler

	stop     chan struct{}
	stopOnce sync.Once
}

// NewScheduler creates a scheduler. A nil parser means no external source:
// Start publishes the built-in table and schedules nothing.
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, reloadTimes string) *Scheduler {
	return &Scheduler{
		dataStore:   dataStore,
		parser:      parser,
		validator:   validation.NewDataValidator(),
		reloadTimes: reloadTimes,
		scheduler:   gocron.NewScheduler(time.Local),
		stop:        make(chan struct{}),
	}
}

// Start performs the initial load and, with a source, schedules the reloads.
// A failed initial load from the source is logged and the built-in table
// keeps being served until the next successful reload.
func (s *Scheduler) Start() error {
	s.publishBuiltin()

	if s.parser == nil {
		logging.Info("No interaction source configured, serving built-in table")
		return nil
	}

	if err := s.Reload(context.Background()); err != nil {
		logging.Error("Initial interaction table load failed, serving built-in table", "source", s.parser.Source(), "error", err)
	}

	_, err := s.scheduler.Every(1).Days().At(s.reloadTimes).Do(func() {
		if err := s.Reload(context.Background()); err != nil {
			logging.Error("Scheduled interaction table reload failed", "source", s.parser.Source(), "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule reloads at %q: %w", s.reloadTimes, err)
	}

	s.scheduler.StartAsync()
	s.startStalenessMonitor(time.Hour)

	logging.Info("Interaction table reloads scheduled", "times", s.reloadTimes, "source", s.parser.Source())
	return nil
}

// Stop stops scheduled reloads and the staleness monitor
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stop)
		s.scheduler.Stop()
	})
}

func (s *Scheduler) publishBuiltin() {
	registry := interactions.Default()
	report := s.validator.ReportDataQuality(interactions.BuiltinInteractions(), interactions.SupplementaryDrugs)

	s.dataStore.UpdateData(registry, report)
	metrics.ObserveRegistry(registry)
}

// Reload fetches the source, validates it and swaps in a new registry.
// On any failure the current snapshot is kept. A reload requested while
// another one runs is skipped.
func (s *Scheduler) Reload(ctx context.Context) error {
	if s.parser == nil {
		return fmt.Errorf("no interaction source configured")
	}

	if !s.dataStore.BeginUpdate() {
		logging.Info("Reload already in progress, skipping")
		metrics.ObserveReload("skipped")
		return nil
	}
	defer s.dataStore.EndUpdate()

	ctx, cancel := context.WithTimeout(ctx, reloadTimeout)
	defer cancel()

	start := time.Now()
	logging.Info("Starting interaction table reload", "source", s.parser.Source())

	registry, report, err := s.load(ctx)
	if err != nil {
		metrics.ObserveReload("failure")
		return err
	}

	s.dataStore.UpdateData(registry, report)
	metrics.ObserveRegistry(registry)
	metrics.ObserveReload("success")

	logging.Info("Interaction table reload completed",
		"duration", time.Since(start).String(),
		"pairs", registry.PairCount(),
		"drugs", registry.DrugCount(),
	)
	return nil
}

func (s *Scheduler) load(ctx context.Context) (*interactions.Registry, *interfaces.DataQualityReport, error) {
	result, err := s.parser.ParseInteractions(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse interactions: %w", err)
	}

	if len(result.Interactions) == 0 {
		return nil, nil, fmt.Errorf("source %s has no interactions", s.parser.Source())
	}

	supplementary := mergeNames(result.Supplementary, interactions.SupplementaryDrugs)
	report := s.validator.ReportDataQuality(result.Interactions, supplementary)

	if report.DuplicatePairs > 0 {
		logging.Warn("Duplicate interaction rows", "count", report.DuplicatePairs)
	}
	if report.HasErrors() {
		logging.Error("Interaction table rejected",
			"self_pairs", report.SelfPairs,
			"conflicting_pairs", report.ConflictingPairs,
		)
		return nil, nil, fmt.Errorf("interaction table has %d self pairs and %d conflicting pairs",
			len(report.SelfPairs), len(report.ConflictingPairs))
	}

	registry, err := interactions.New(result.Interactions, supplementary)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build registry: %w", err)
	}

	return registry, report, nil
}

// mergeNames returns the union of both lists keeping first occurrence order
func mergeNames(first, second []string) []string {
	seen := make(map[string]bool, len(first)+len(second))
	out := make([]string, 0, len(first)+len(second))
	for _, list := range [][]string{first, second} {
		for _, name := range list {
			if !seen[name] {
				seen[name] = true
				out = append(out, name)
			}
		}
	}
	return out
}

// startStalenessMonitor warns when scheduled reloads stop succeeding
func (s *Scheduler) startStalenessMonitor(every time.Duration) {
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()

		for {
			select {
			case <-s.stop:
				return
			case <-ticker.C:
				if age := time.Since(s.dataStore.GetLastUpdated()); age > staleWarningAfter {
					logging.Warn("Interaction table has not been reloaded recently", "age", age.Round(time.Minute).String())
				}
			}
		}
	}()
}
