// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/vibration-engine/internal/catalog"
	"github.com/pdiddy/vibration-engine/pkg/types"
)

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the pattern catalog (store, retrieve, facets, export)",
	Long: `Catalog manages a local SQLite database built from extracted pattern
files. Use subcommands to index pattern files, filter patterns by tag, list
the available tags, or export a filtered subset.`,
}

// --- store subcommand ---

var catalogStoreCmd = &cobra.Command{
	Use:   "store <patterns.json>...",
	Short: "Ingest extracted pattern files into the catalog",
	Long: `Store reads pattern documents written by vibration-engine (JSON, or YAML
by extension) and indexes them. Re-ingesting a file replaces its earlier
patterns; unchanged files are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCatalogStore,
}

func runCatalogStore(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	failed := 0
	for _, path := range args {
		if _, err := store.Ingest(context.Background(), path, os.Stdout); err != nil {
			fmt.Fprintf(os.Stdout, "failed  %s: %v\n", path, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d file(s) failed indexing", failed)
	}
	return nil
}

// --- retrieve subcommand ---

var catalogRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Filter catalog patterns by tag or text",
	Long: `Retrieve lists patterns that carry every requested tag (--sensation,
--emotion, --metaphor, --usage) and whose id or tags contain the query text.
With no filters it lists the whole catalog.`,
	RunE: runCatalogRetrieve,
}

func runCatalogRetrieve(cmd *cobra.Command, args []string) error {
	store, err := openCatalog()
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := store.Retrieve(context.Background(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(results, jsonOutput)
}

func formatRetrieveOutput(results []types.Pattern, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No patterns found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-8s  %-8s  %-24s  %-24s  %-20s  %s\n",
		"ID", "Segments", "Sensation", "Emotion", "Metaphors", "Usage")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, p := range results {
		fmt.Fprintf(os.Stdout, "%-8s  %-8d  %-24s  %-24s  %-20s  %s\n",
			p.ID, len(p.Timings),
			truncate(strings.Join(p.SensationTags, ","), 24),
			truncate(strings.Join(p.EmotionTags, ","), 24),
			truncate(strings.Join(p.Metaphors, ","), 20),
			strings.Join(p.UsageExamples, ","))
	}

	fmt.Fprintf(os.Stdout, "\n%d patterns\n", len(results))
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// --- facets subcommand ---

var catalogFacetsCmd = &cobra.Command{
	Use:   "facets",
	Short: "List the distinct tags of each facet",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer store.Close()

		facets, err := store.Facets(context.Background())
		if err != nil {
			return err
		}
		for _, f := range types.Facets {
			fmt.Printf("%-10s %s\n", f+":", strings.Join(facets[f], ", "))
		}
		return nil
	},
}

// --- export subcommand ---

var catalogExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to JSON or YAML",
	Long: `Export writes the catalog (or the subset matching the filter flags) to
<catalog-dir>/export.json or export.yaml.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")

		store, err := openCatalog()
		if err != nil {
			return err
		}
		defer store.Close()

		path, err := store.Export(context.Background(), queryOptsFromFlags(cmd, args), types.OutputFormat(format))
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	},
}

// --- shared helpers ---

func openCatalog() (*catalog.Store, error) {
	cfg := loadConfig()
	return catalog.NewStore(cfg.Catalog, logger)
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) catalog.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}
	limit, _ := cmd.Flags().GetInt("limit")

	opts := catalog.QueryOptions{
		Query:      queryText,
		Tags:       map[types.Facet]string{},
		MaxResults: limit,
	}
	for _, f := range types.Facets {
		if v, _ := cmd.Flags().GetString(string(f)); v != "" {
			opts.Tags[f] = v
		}
	}
	return opts
}

// addFilterFlags registers the tag and text filters shared by retrieve and export.
func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "substring matched against pattern ids and tags")
	for _, f := range types.Facets {
		cmd.Flags().String(string(f), "", fmt.Sprintf("require this %s tag", f))
	}
	cmd.Flags().Int("limit", 0, "maximum results (0 = default for retrieve, all for export)")
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	catalogCmd.PersistentFlags().String("catalog-dir", "catalog", "directory holding the catalog database and exports")
	catalogCmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
	viper.SetDefault("catalog_dir", "catalog")
	viper.SetDefault("max_results", 20)
	viper.BindPFlag("catalog_dir", catalogCmd.PersistentFlags().Lookup("catalog-dir"))
	viper.BindPFlag("max_results", catalogCmd.PersistentFlags().Lookup("max-results"))

	addFilterFlags(catalogRetrieveCmd)
	catalogRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	addFilterFlags(catalogExportCmd)
	catalogExportCmd.Flags().String("format", "json", "export format: json or yaml")

	// Wire subcommands.
	catalogCmd.AddCommand(catalogStoreCmd)
	catalogCmd.AddCommand(catalogRetrieveCmd)
	catalogCmd.AddCommand(catalogFacetsCmd)
	catalogCmd.AddCommand(catalogExportCmd)

	rootCmd.AddCommand(catalogCmd)
}
