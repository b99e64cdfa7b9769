// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/vibration-engine/pkg/types"
)

// facetColumns maps each facet to its list column in the patterns table.
var facetColumns = map[types.Facet]string{
	types.FacetSensation: "sensation_tags",
	types.FacetEmotion:   "emotion_tags",
	types.FacetMetaphor:  "metaphors",
	types.FacetUsage:     "usage_examples",
}

// QueryOptions holds parameters for catalog queries. Every non-empty field
// must match (AND semantics).
type QueryOptions struct {
	// Query is a case-insensitive substring matched against the pattern id
	// and every tag.
	Query string

	// Tags requires the pattern's tag list for each facet to contain the
	// given value exactly.
	Tags map[types.Facet]string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search text or facet filters.
func (q QueryOptions) IsEmpty() bool {
	if q.Query != "" {
		return false
	}
	for _, v := range q.Tags {
		if v != "" {
			return false
		}
	}
	return true
}

// Retrieve returns the patterns matching opts, ordered by id and then by
// their position in the ingested file.
func (s *Store) Retrieve(ctx context.Context, opts QueryOptions) ([]types.Pattern, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(
		`SELECT p.id, p.timings, p.amplitudes, p.sensation_tags, p.emotion_tags,
			p.metaphors, p.usage_examples, p.image_path
		FROM patterns p
		WHERE 1=1`)

	for _, f := range types.Facets {
		value := opts.Tags[f]
		if value == "" {
			continue
		}
		fmt.Fprintf(&qb, ` AND EXISTS (SELECT 1 FROM json_each(p.%s) WHERE value = ?)`, facetColumns[f])
		args = append(args, value)
	}

	if opts.Query != "" {
		like := likePattern(opts.Query)
		qb.WriteString(` AND (p.id LIKE ? ESCAPE '\'`)
		args = append(args, like)
		for _, f := range types.Facets {
			fmt.Fprintf(&qb, ` OR EXISTS (SELECT 1 FROM json_each(p.%s) WHERE value LIKE ? ESCAPE '\')`, facetColumns[f])
			args = append(args, like)
		}
		qb.WriteString(`)`)
	}

	qb.WriteString(` ORDER BY p.id, p.source, p.position LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying catalog: %w", err)
	}
	defer rows.Close()

	results := []types.Pattern{}
	for rows.Next() {
		var (
			p                            types.Pattern
			timings, amplitudes          string
			sensation, emotion, metaphor string
			usage                        string
			image                        sql.NullString
		)
		if err := rows.Scan(&p.ID, &timings, &amplitudes,
			&sensation, &emotion, &metaphor, &usage, &image); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		for _, col := range []struct {
			text string
			dst  any
		}{
			{timings, &p.Timings},
			{amplitudes, &p.Amplitudes},
			{sensation, &p.SensationTags},
			{emotion, &p.EmotionTags},
			{metaphor, &p.Metaphors},
			{usage, &p.UsageExamples},
		} {
			if err := json.Unmarshal([]byte(col.text), col.dst); err != nil {
				return nil, fmt.Errorf("decoding pattern %s: %w", p.ID, err)
			}
		}
		if image.Valid {
			img := image.String
			p.ImagePath = &img
		}

		results = append(results, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	s.log.Debug("retrieved patterns", zap.Int("results", len(results)))
	return results, nil
}

// Facets returns the distinct tag values of each facet across the catalog,
// sorted alphabetically.
func (s *Store) Facets(ctx context.Context) (map[types.Facet][]string, error) {
	facets := make(map[types.Facet][]string, len(types.Facets))
	for _, f := range types.Facets {
		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
			`SELECT DISTINCT j.value FROM patterns p, json_each(p.%s) j ORDER BY j.value`,
			facetColumns[f]))
		if err != nil {
			return nil, fmt.Errorf("listing %s tags: %w", f, err)
		}

		values := []string{}
		for rows.Next() {
			var v string
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return nil, fmt.Errorf("scanning %s tag: %w", f, err)
			}
			values = append(values, v)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("listing %s tags: %w", f, err)
		}
		facets[f] = values
	}
	return facets, nil
}

// likePattern wraps q for a substring LIKE match, escaping LIKE wildcards.
func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(q) + "%"
}
