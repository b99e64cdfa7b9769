// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls vibration patterns out of source files that declare
// them as VibrationModel(...) literals and writes them as a sorted document.
//
// Extraction is pattern based, not a parser: blocks are found by balancing
// parentheses, and each field is matched independently inside its block.
package extract

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/pdiddy/vibration-engine/pkg/types"
)

// ErrNoBlocks is returned by Run when the source contains no declaration
// blocks at all. No output is written in that case.
var ErrNoBlocks = errors.New("no declaration blocks found")

// Summary holds counts from one extraction run.
type Summary struct {
	// Blocks is the number of declaration blocks found in the source.
	Blocks int
	// Skipped counts blocks without a recognizable id.
	Skipped int
	// Written is the number of patterns in the output document.
	Written int
	// DroppedLiterals counts integer literals left out of timings and
	// amplitudes because they do not fit in an int64.
	DroppedLiterals int
}

// BuildPattern assembles a Pattern from one declaration block. It reports
// false when the block carries no id; such blocks are not patterns.
func BuildPattern(block string) (types.Pattern, bool) {
	p, _, ok := buildPattern(block)
	return p, ok
}

func buildPattern(block string) (types.Pattern, int, bool) {
	id, ok := ExtractID(block)
	if !ok {
		return types.Pattern{}, 0, false
	}

	timings, droppedT, ok := extractIntegers(longArrayRe, block)
	if !ok {
		timings = []int64{}
	}
	amplitudes, droppedA, ok := extractIntegers(intArrayRe, block)
	if !ok {
		amplitudes = []int64{}
	}

	p := types.Pattern{
		ID:            id,
		Timings:       timings,
		Amplitudes:    amplitudes,
		SensationTags: ExtractStringList(FieldSensationTags, block),
		EmotionTags:   ExtractStringList(FieldEmotionTags, block),
		Metaphors:     ExtractStringList(FieldMetaphors, block),
		UsageExamples: ExtractStringList(FieldUsageExamples, block),
	}
	if img, ok := ExtractImagePath(block); ok {
		p.ImagePath = &img
	}
	return p, droppedT + droppedA, true
}

// Assemble builds a pattern from every block that has an id and returns them
// sorted by id, along with the number of blocks skipped. Duplicate ids are
// kept in their original relative order.
func Assemble(blocks []string) ([]types.Pattern, int) {
	patterns, skipped, _ := assemble(blocks)
	return patterns, skipped
}

// assemble is Assemble that also counts dropped integer literals.
func assemble(blocks []string) (patterns []types.Pattern, skipped, dropped int) {
	patterns = make([]types.Pattern, 0, len(blocks))
	for _, b := range blocks {
		p, n, ok := buildPattern(b)
		if !ok {
			skipped++
			continue
		}
		dropped += n
		patterns = append(patterns, p)
	}
	sort.SliceStable(patterns, func(i, j int) bool {
		return patterns[i].ID < patterns[j].ID
	})
	return patterns, skipped, dropped
}

// Run reads cfg.InputPath, extracts every pattern, and writes the document to
// cfg.OutputPath. On success it prints a one-line summary to w.
func Run(cfg types.ExtractionConfig, log *zap.Logger, w io.Writer) (Summary, error) {
	keyword := cfg.Keyword
	if keyword == "" {
		keyword = types.DefaultKeyword
	}
	format := cfg.Format
	if format == "" {
		format = types.FormatJSON
	}
	if err := checkFormat(format); err != nil {
		return Summary{}, err
	}

	text, err := LoadSource(cfg.InputPath)
	if err != nil {
		return Summary{}, err
	}

	blocks := FindBlocks(text, keyword)
	log.Debug("scanned source",
		zap.String("input", cfg.InputPath),
		zap.String("keyword", keyword),
		zap.Int("blocks", len(blocks)))
	if len(blocks) == 0 {
		return Summary{}, fmt.Errorf("%w: no %s(...) blocks in %s; check that --input points to the right file",
			ErrNoBlocks, keyword, cfg.InputPath)
	}

	patterns, skipped, dropped := assemble(blocks)
	if skipped > 0 {
		log.Debug("skipped blocks without id", zap.Int("skipped", skipped))
	}
	if dropped > 0 {
		log.Debug("dropped out-of-range integer literals", zap.Int("dropped", dropped))
	}

	if err := WritePatterns(cfg.OutputPath, patterns, format); err != nil {
		return Summary{}, err
	}
	log.Debug("wrote patterns",
		zap.String("output", cfg.OutputPath),
		zap.String("format", string(format)),
		zap.Int("patterns", len(patterns)))

	fmt.Fprintf(w, "Extracted %d patterns -> %s\n", len(patterns), cfg.OutputPath)
	return Summary{
		Blocks:          len(blocks),
		Skipped:         skipped,
		Written:         len(patterns),
		DroppedLiterals: dropped,
	}, nil
}
