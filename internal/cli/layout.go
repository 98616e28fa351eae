package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tilewall/internal/config"
	"github.com/matzehuels/tilewall/pkg/arrange"
	"github.com/matzehuels/tilewall/pkg/cache"
)

const arrangeAll = "all"

// layoutCommand creates the layout command for exporting target sets.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		flags  config.Flags
		output string
	)

	cmd := &cobra.Command{
		Use:   "layout [table|sphere|helix|grid|all]",
		Short: "Write target poses for an arrangement as JSON",
		Long: `Write target poses for an arrangement as JSON.

The item count comes from --count, or from the dataset when --source is
given. With "all" (the default) the four target sets are written as one
document.

Target sets are cached; repeated runs for the same size are instant.`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completeArrangements,
		RunE: func(cmd *cobra.Command, args []string) error {
			name := arrangeAll
			if len(args) == 1 {
				name = args[0]
			}
			cfg, err := c.loadConfig(flags)
			if err != nil {
				return err
			}
			return c.runLayout(cmd.Context(), cfg, name, output, cmd.Flags().Changed("count"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <arrangement>.targets.json, - for stdout)")
	cmd.Flags().IntVarP(&flags.Count, "count", "n", 0, "number of items")
	cmd.Flags().StringVarP(&flags.Source, "source", "s", "", "dataset CSV file or URL to size the layout from")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout resolves the item count, builds or loads the target sets and
// writes them.
func (c *CLI) runLayout(ctx context.Context, cfg config.Config, name, output string, countSet bool) error {
	store, err := c.openCache(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	n := cfg.Dataset.Count
	if cfg.Dataset.Source != "" && !countSet {
		records, err := c.loadRecords(ctx, cfg, store)
		if err != nil {
			return err
		}
		n = len(records)
	}

	var (
		doc    any
		cached bool
	)
	if name == arrangeAll {
		t := arrange.Targets{N: n}
		cached = true
		for _, a := range arrange.All() {
			set, hit, err := c.targetSet(ctx, store, a, n)
			if err != nil {
				return err
			}
			cached = cached && hit
			switch a {
			case arrange.Table:
				t.Table = set
			case arrange.Sphere:
				t.Sphere = set
			case arrange.Helix:
				t.Helix = set
			case arrange.Grid:
				t.Grid = set
			}
		}
		doc = t
	} else {
		a, err := arrange.Parse(name)
		if err != nil {
			return err
		}
		set, hit, err := c.targetSet(ctx, store, a, n)
		if err != nil {
			return err
		}
		doc, cached = set, hit
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode targets: %w", err)
	}

	if output == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if output == "" {
		output = name + ".targets.json"
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Layout complete")
	printFile(output)
	printStats(cached, fmt.Sprintf("%d items", n), name)
	printNewline()
	printNextStep("Watch it", "tilewall play -n "+fmt.Sprint(n))
	return nil
}

// targetSet returns the target set for a at size n, consulting the cache
// first.
func (c *CLI) targetSet(ctx context.Context, store cache.Cache, a arrange.Arrangement, n int) (arrange.TargetSet, bool, error) {
	key := cache.NewDefaultKeyer().TargetsKey(a.String(), n)

	if data, hit, err := store.Get(ctx, key); err == nil && hit {
		var set arrange.TargetSet
		if err := json.Unmarshal(data, &set); err == nil {
			c.Logger.Debug("targets from cache", "arrangement", a, "items", n)
			return set, true, nil
		}
		c.Logger.Warn("discarding corrupt cache entry", "key", key)
	}

	set := a.Generator()(n)
	data, err := json.Marshal(set)
	if err != nil {
		return nil, false, fmt.Errorf("encode %s targets: %w", a, err)
	}
	if err := store.Set(ctx, key, data, cache.TTLTargets); err != nil {
		c.Logger.Warn("cache targets", "key", key, "err", err)
	}
	return set, false, nil
}
