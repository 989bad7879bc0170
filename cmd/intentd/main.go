package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	configfile "github.com/rajivsinclair/intentd/internal/adapters/driven/config/file"
	"github.com/rajivsinclair/intentd/internal/adapters/driven/generator/api"
	"github.com/rajivsinclair/intentd/internal/adapters/driven/generator/claudecli"
	"github.com/rajivsinclair/intentd/internal/adapters/driven/generator/static"
	"github.com/rajivsinclair/intentd/internal/adapters/driven/gitdiff"
	statefile "github.com/rajivsinclair/intentd/internal/adapters/driven/state/file"
	"github.com/rajivsinclair/intentd/internal/adapters/driven/transcript/jsonl"
	"github.com/rajivsinclair/intentd/internal/adapters/driving/cli"
	"github.com/rajivsinclair/intentd/internal/core/domain"
	"github.com/rajivsinclair/intentd/internal/core/ports/driven"
	"github.com/rajivsinclair/intentd/internal/core/services"
	"github.com/rajivsinclair/intentd/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	cfg, err := configfile.NewConfigStore("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "intentd: load config: %v\n", err)
		os.Exit(1)
	}

	limits := loadLimits(cfg)

	repoRoot, err := statefile.RepoRoot(".")
	if err != nil {
		// Outside a repository only read-only commands make sense; the
		// hook command still has to exit 0 silently.
		if !errors.Is(err, domain.ErrNotRepository) {
			fmt.Fprintf(os.Stderr, "intentd: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("not inside a git repository")
	}

	if repoRoot != "" {
		svc := services.NewIntentService(
			jsonl.NewReader(),
			gitdiff.NewProvider(repoRoot),
			buildGenerators(cfg),
			statefile.NewCache(repoRoot, limits.CacheTTL),
			statefile.NewStore(repoRoot),
			limits,
		)
		cli.SetIntentService(svc)
	}

	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "intentd: %v\n", err)
		os.Exit(1)
	}
}

// buildGenerators assembles the fallback chain: the local claude CLI,
// then the Anthropic API when a key is configured, then the static
// pattern generator which never fails.
func buildGenerators(cfg driven.ConfigStore) []driven.IntentGenerator {
	var chain []driven.IntentGenerator

	cliTimeout := time.Duration(cfg.GetInt("generator.cli_timeout_seconds")) * time.Second
	chain = append(chain, claudecli.NewGenerator(claudecli.Config{
		Binary:  cfg.GetString("generator.binary"),
		Model:   cfg.GetString("generator.model"),
		Timeout: cliTimeout,
	}))

	if key := apiKey(cfg); key != "" {
		gen, err := api.NewGenerator(api.Config{
			APIKey:  key,
			BaseURL: cfg.GetString("generator.base_url"),
			Model:   cfg.GetString("generator.model"),
		})
		if err == nil {
			chain = append(chain, gen)
		}
	}

	return append(chain, static.NewGenerator())
}

func apiKey(cfg driven.ConfigStore) string {
	if key := cfg.GetString("generator.api_key"); key != "" {
		return key
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// loadLimits overlays configured values onto the tuned defaults.
func loadLimits(cfg driven.ConfigStore) domain.Limits {
	limits := domain.DefaultLimits()

	setInt := func(key string, dst *int) {
		if v := cfg.GetInt(key); v > 0 {
			*dst = v
		}
	}
	setInt("intent.max_lookback", &limits.MaxLookback)
	setInt("intent.tail_window", &limits.TailWindow)
	setInt("intent.target_tokens", &limits.TargetTokens)
	setInt("intent.max_tokens", &limits.MaxTokens)
	setInt("intent.min_relevance", &limits.MinRelevance)
	setInt("intent.top_tier_relevance", &limits.TopTierRelevance)
	setInt("intent.min_entries", &limits.MinEntries)

	if v := cfg.GetFloat("intent.chars_per_token"); v > 0 {
		limits.CharsPerToken = v
	}
	if v := cfg.GetInt("intent.cache_ttl_seconds"); v > 0 {
		limits.CacheTTL = time.Duration(v) * time.Second
	}

	return limits
}
