package main

import (
	"fmt"
	"log/slog"

	"github.com/Veraticus/tally/internal/config"
	"github.com/Veraticus/tally/internal/engine"
	"github.com/Veraticus/tally/internal/hints"
	"github.com/Veraticus/tally/internal/service"
)

// newProcessor wires the taxonomy, engine config and hint provider from
// viper state.
func newProcessor(hintsFile string, opts ...engine.Option) (*engine.Processor, error) {
	tax, err := config.LoadTaxonomy()
	if err != nil {
		return nil, err
	}

	provider, err := hintProvider(hintsFile)
	if err != nil {
		return nil, err
	}

	base := []engine.Option{engine.WithLogger(slog.Default())}
	if provider != nil {
		base = append(base, engine.WithHintProvider(provider))
	}

	return engine.New(tax, config.LoadEngineConfig(), append(base, opts...)...), nil
}

// hintProvider prefers a local hint file over the configured label service.
func hintProvider(hintsFile string) (service.HintProvider, error) {
	if hintsFile != "" {
		return hints.FileProvider{Path: config.ExpandPath(hintsFile)}, nil
	}
	if !config.HintsEnabled() {
		return nil, nil
	}

	cfg, err := config.LoadHintsConfig()
	if err != nil {
		return nil, fmt.Errorf("invalid label service config: %w", err)
	}
	provider, err := hints.NewHTTPProvider(*cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return provider, nil
}
