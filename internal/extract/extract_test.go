// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/pdiddy/vibration-engine/pkg/types"
)

const sampleSource = `package com.example.model

data class VibrationModel(
    val id: String,
    val timings: LongArray,
    val amplitudes: IntArray
)

object VibrationPatterns {
    val VIB003 = VibrationModel(
        id = "VIB003",
        timings = longArrayOf(10, 20, 30),
        amplitudes = intArrayOf(0, 128, 255),
        sensationTags = listOf("simple", "soft"),
        emotionTags = listOf("calm"),
        metaphors = listOf("heartbeat"),
        usageExamples = listOf("reminder", "battery low"),
        imagePath = R.drawable.vib003
    )

    val DRAFT = VibrationModel(
        name = "UNFINISHED",
        timings = longArrayOf(1)
    )

    val VIB001 = VibrationModel(
        id = "VIB001",
        sensationTags = listOf("grainy")
    )
}
`

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "VibrationPatternModel.kt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runExtract(t *testing.T, cfg types.ExtractionConfig) (Summary, string, error) {
	t.Helper()
	var out bytes.Buffer
	summary, err := Run(cfg, zap.NewNop(), &out)
	return summary, out.String(), err
}

func readOutput(t *testing.T, path string) []types.Pattern {
	t.Helper()
	patterns, err := ReadPatterns(path)
	require.NoError(t, err)
	return patterns
}

func TestRun_EndToEndExample(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, `VibrationModel(id = "VIB002", timings = longArrayOf(5,5), amplitudes = intArrayOf(100,200), sensationTags = listOf("buzz"), imagePath = R.drawable.vib002)`)
	output := filepath.Join(dir, "patterns.json")

	summary, printed, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, Summary{Blocks: 1, Skipped: 0, Written: 1}, summary)
	assert.Equal(t, "Extracted 1 patterns -> "+output+"\n", printed)

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, data))
	want := `[{"id":"VIB002","timings":[5,5],"amplitudes":[100,200],"sensationTags":["buzz"],"emotionTags":[],"metaphors":[],"usageExamples":[],"imagePath":"vib002"}]`
	assert.Equal(t, want, compact.String())

	// Two-space indentation.
	assert.True(t, strings.HasPrefix(string(data), "[\n  {\n    \"id\": \"VIB002\","), "got:\n%s", data)
}

func TestRun_SortsSkipsAndDefaults(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, sampleSource)
	output := filepath.Join(dir, "patterns.json")

	summary, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)

	// data class header, VIB003, DRAFT, VIB001.
	assert.Equal(t, 4, summary.Blocks)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 2, summary.Written)

	img := "vib003"
	want := []types.Pattern{
		{
			ID:            "VIB001",
			Timings:       []int64{},
			Amplitudes:    []int64{},
			SensationTags: []string{"grainy"},
			EmotionTags:   []string{},
			Metaphors:     []string{},
			UsageExamples: []string{},
		},
		{
			ID:            "VIB003",
			Timings:       []int64{10, 20, 30},
			Amplitudes:    []int64{0, 128, 255},
			SensationTags: []string{"simple", "soft"},
			EmotionTags:   []string{"calm"},
			Metaphors:     []string{"heartbeat"},
			UsageExamples: []string{"reminder", "battery low"},
			ImagePath:     &img,
		},
	}
	if diff := cmp.Diff(want, readOutput(t, output)); diff != "" {
		t.Errorf("patterns mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"imagePath": null`)
	assert.NotContains(t, string(data), "null,")
}

func TestRun_NoBlocksWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, "fun main() {\n    println(\"no patterns here\")\n}\n")
	output := filepath.Join(dir, "out", "patterns.json")

	_, printed, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoBlocks))
	assert.Contains(t, err.Error(), "VibrationModel(...)")
	assert.Empty(t, printed)

	_, statErr := os.Stat(output)
	assert.True(t, os.IsNotExist(statErr), "output must not be written")
	_, statErr = os.Stat(filepath.Dir(output))
	assert.True(t, os.IsNotExist(statErr), "output directory must not be created")
}

func TestRun_AllBlocksSkippedWritesEmptyArray(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, `VibrationModel(name = "A") VibrationModel(name = "B")`)
	output := filepath.Join(dir, "patterns.json")

	summary, printed, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 0, summary.Written)
	assert.Contains(t, printed, "Extracted 0 patterns")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestRun_CreatesParentDirectories(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, sampleSource)
	output := filepath.Join(dir, "app", "src", "main", "assets", "patterns.json")

	_, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	assert.FileExists(t, output)
}

func TestRun_OutputUnwritable(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, sampleSource)
	blocker := filepath.Join(dir, "assets")
	require.NoError(t, os.WriteFile(blocker, []byte("not a directory"), 0o644))

	_, stdout, err := runExtract(t, types.ExtractionConfig{
		InputPath:  input,
		OutputPath: filepath.Join(blocker, "patterns.json"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "creating output directory")
	assert.Empty(t, stdout)
}

func TestRun_LogsDroppedLiterals(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, `VibrationModel(
        id = "VIB001",
        timings = longArrayOf(10, 99999999999999999999, 20),
        amplitudes = intArrayOf(-99999999999999999999)
    )`)
	output := filepath.Join(dir, "patterns.json")

	core, logs := observer.New(zapcore.DebugLevel)
	summary, err := Run(types.ExtractionConfig{InputPath: input, OutputPath: output}, zap.New(core), &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, 2, summary.DroppedLiterals)

	entries := logs.FilterMessage("dropped out-of-range integer literals").All()
	require.Len(t, entries, 1)
	assert.Equal(t, int64(2), entries[0].ContextMap()["dropped"])

	got := readOutput(t, output)
	require.Len(t, got, 1)
	assert.Equal(t, []int64{10, 20}, got[0].Timings)
	assert.Equal(t, []int64{}, got[0].Amplitudes)
}

func TestRun_MissingInput(t *testing.T) {
	dir := t.TempDir()
	output := filepath.Join(dir, "patterns.json")

	_, _, err := runExtract(t, types.ExtractionConfig{
		InputPath:  filepath.Join(dir, "missing.kt"),
		OutputPath: output,
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.NoFileExists(t, output)
}

func TestRun_DuplicateIDsKept(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, `
VibrationModel(id = "VIB002", metaphors = listOf("second"))
VibrationModel(id = "VIB001", metaphors = listOf("first"))
VibrationModel(id = "VIB002", metaphors = listOf("third"))
`)
	output := filepath.Join(dir, "patterns.json")

	_, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)

	got := readOutput(t, output)
	require.Len(t, got, 3)
	assert.Equal(t, "VIB001", got[0].ID)
	assert.Equal(t, []string{"second"}, got[1].Metaphors)
	assert.Equal(t, []string{"third"}, got[2].Metaphors)
}

func TestRun_SortInvariant(t *testing.T) {
	dir := t.TempDir()
	var src strings.Builder
	for _, id := range []string{"VIB10", "VIB2", "VIB001", "VIB1", "VIB000"} {
		src.WriteString(`VibrationModel(id = "` + id + `")` + "\n")
	}
	input := writeSource(t, dir, src.String())
	output := filepath.Join(dir, "patterns.json")

	summary, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output})
	require.NoError(t, err)
	assert.Equal(t, 5, summary.Written)

	got := readOutput(t, output)
	require.Len(t, got, 5)
	for i := 0; i+1 < len(got); i++ {
		assert.LessOrEqual(t, got[i].ID, got[i+1].ID)
	}
	assert.Equal(t, "VIB000", got[0].ID)
	assert.Equal(t, "VIB2", got[4].ID)
}

func TestRun_CustomKeyword(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, `Haptic(id = "VIB005") VibrationModel(id = "VIB006")`)
	output := filepath.Join(dir, "patterns.json")

	summary, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output, Keyword: "Haptic"})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Blocks)
	assert.Equal(t, "VIB005", readOutput(t, output)[0].ID)
}

func TestRun_YAMLFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, sampleSource)
	output := filepath.Join(dir, "patterns.yaml")

	_, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output, Format: types.FormatYAML})
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.HasPrefix(text, "- id: VIB001\n"), "got:\n%s", text)
	assert.Contains(t, text, "timings: []")
	assert.Contains(t, text, "imagePath: null")

	got := readOutput(t, output)
	require.Len(t, got, 2)
	require.NotNil(t, got[1].ImagePath)
	assert.Equal(t, "vib003", *got[1].ImagePath)
}

func TestRun_UnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	input := writeSource(t, dir, sampleSource)
	output := filepath.Join(dir, "patterns.xml")

	_, _, err := runExtract(t, types.ExtractionConfig{InputPath: input, OutputPath: output, Format: "xml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported format "xml"`)
	assert.NoFileExists(t, output)
}

func TestLoadSource_DropsInvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.kt")
	content := []byte("VibrationModel(id = \"VIB001\", metaphors = listOf(\"caf\xe9\", \"ok\xff\xfe\"))")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	text, err := LoadSource(path)
	require.NoError(t, err)
	assert.Equal(t, `VibrationModel(id = "VIB001", metaphors = listOf("caf", "ok"))`, text)
}

func TestEncodePatterns_KeepsNonASCIILiteral(t *testing.T) {
	p := types.Pattern{
		ID:            "VIB001",
		Timings:       []int64{},
		Amplitudes:    []int64{},
		SensationTags: []string{"ドキドキ", "<soft & grainy>"},
		EmotionTags:   []string{},
		Metaphors:     []string{},
		UsageExamples: []string{},
	}
	data, err := EncodePatterns([]types.Pattern{p}, types.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"ドキドキ"`)
	assert.Contains(t, string(data), `"<soft & grainy>"`)
}

func TestEncodePatterns_LineSeparatorsLiteral(t *testing.T) {
	p := types.Pattern{
		ID:            "VIB001",
		Timings:       []int64{},
		Amplitudes:    []int64{},
		SensationTags: []string{"a\u2028b", "c\u2029d"},
		EmotionTags:   []string{`\u2028 stays escaped`},
		Metaphors:     []string{},
		UsageExamples: []string{},
	}
	data, err := EncodePatterns([]types.Pattern{p}, types.FormatJSON)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\"a\u2028b\"")
	assert.Contains(t, string(data), "\"c\u2029d\"")
	assert.Contains(t, string(data), `"\\u2028 stays escaped"`)

	var decoded []types.Pattern
	require.NoError(t, json.Unmarshal(data, &decoded))
	if diff := cmp.Diff([]types.Pattern{p}, decoded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatForPath(t *testing.T) {
	assert.Equal(t, types.FormatYAML, FormatForPath("a/b.yaml"))
	assert.Equal(t, types.FormatYAML, FormatForPath("b.YML"))
	assert.Equal(t, types.FormatJSON, FormatForPath("b.json"))
	assert.Equal(t, types.FormatJSON, FormatForPath("b"))
}
