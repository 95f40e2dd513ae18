/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError is a single invalid setting.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

func ValidStoreKinds() []string {
	return []string{"file", "s3", "redis"}
}

func ValidGreedyStrategies() []string {
	return []string{"scan", "lazy"}
}

func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks c and returns every problem found.
func (c *Config) Validate() []ValidationError {
	var errs []ValidationError

	if len(c.League.Teams) < 2 {
		errs = append(errs, ValidationError{"league.teams", len(c.League.Teams),
			"need at least two teams"})
	}
	seen := make(map[string]bool, len(c.League.Teams))
	for _, t := range c.League.Teams {
		if t == "" || strings.Contains(t, "-") {
			errs = append(errs, ValidationError{"league.teams", t,
				"team codes must be non-empty and must not contain '-'"})
		} else if seen[t] {
			errs = append(errs, ValidationError{"league.teams", t, "duplicate team code"})
		}
		seen[t] = true
	}

	if c.Solver.TimeLimit < 0 {
		errs = append(errs, ValidationError{"solver.time_limit", c.Solver.TimeLimit,
			"must be >= 0"})
	}
	if !slices.Contains(ValidGreedyStrategies(), c.Solver.Greedy) {
		errs = append(errs, ValidationError{"solver.greedy", c.Solver.Greedy,
			fmt.Sprintf("must be one of %v", ValidGreedyStrategies())})
	}

	switch c.Store.Kind {
	case "file":
		if c.Store.Path == "" {
			errs = append(errs, ValidationError{"store.path", c.Store.Path,
				"required for the file store"})
		}
	case "s3":
		if c.Store.S3Bucket == "" || c.Store.S3Key == "" {
			errs = append(errs, ValidationError{"store.s3_bucket", c.Store.S3Bucket,
				"bucket and key are required for the s3 store"})
		}
	case "redis":
		if c.Store.RedisAddr == "" {
			errs = append(errs, ValidationError{"store.redis_addr", c.Store.RedisAddr,
				"required for the redis store"})
		}
	default:
		errs = append(errs, ValidationError{"store.kind", c.Store.Kind,
			fmt.Sprintf("must be one of %v", ValidStoreKinds())})
	}

	if c.Report.MaxPlayers < 0 {
		errs = append(errs, ValidationError{"report.max_players", c.Report.MaxPlayers,
			"must be >= 0"})
	}

	if c.Scrape.MinDelay < 0 || c.Scrape.MaxDelay < c.Scrape.MinDelay {
		errs = append(errs, ValidationError{"scrape.max_delay", c.Scrape.MaxDelay,
			"delays must satisfy 0 <= min_delay <= max_delay"})
	}
	if c.Scrape.MaxRetries < 0 {
		errs = append(errs, ValidationError{"scrape.max_retries", c.Scrape.MaxRetries,
			"must be >= 0"})
	}

	if !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errs = append(errs, ValidationError{"logging.level", c.Logging.Level,
			fmt.Sprintf("must be one of %v", ValidLogLevels())})
	}

	return errs
}
