// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// space and digit are the Unicode whitespace and decimal digit classes.
// RE2's \s and \d only cover ASCII; declarations may use other scripts.
const (
	space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`
	digit = `\p{Nd}`
)

// Field patterns. Each extractor uses the first match in a block only.
var (
	// idRe matches id = "VIB001".
	idRe = regexp.MustCompile(`id` + space + `*=` + space + `*"(VIB` + digit + `+)"`)

	// longArrayRe and intArrayRe capture the argument text of the array
	// constructor up to the first ")".
	longArrayRe = regexp.MustCompile(`(?s)longArrayOf` + space + `*\((.*?)\)`)
	intArrayRe  = regexp.MustCompile(`(?s)intArrayOf` + space + `*\((.*?)\)`)

	// integerRe matches an optionally negative integer literal.
	integerRe = regexp.MustCompile(`-?` + digit + `+`)

	// quotedRe matches a double-quoted literal without escape handling.
	quotedRe = regexp.MustCompile(`"(.*?)"`)

	// imageRe matches imagePath = R.drawable.vib000.
	imageRe = regexp.MustCompile(`imagePath` + space + `*=` + space + `*R\.drawable\.([A-Za-z0-9_]+)`)
)

// Names of the string-list fields on a declaration.
const (
	FieldSensationTags = "sensationTags"
	FieldEmotionTags   = "emotionTags"
	FieldMetaphors     = "metaphors"
	FieldUsageExamples = "usageExamples"
)

// listRes caches the listOf patterns for the known string-list fields.
var listRes = map[string]*regexp.Regexp{
	FieldSensationTags: listPattern(FieldSensationTags),
	FieldEmotionTags:   listPattern(FieldEmotionTags),
	FieldMetaphors:     listPattern(FieldMetaphors),
	FieldUsageExamples: listPattern(FieldUsageExamples),
}

func listPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)` + regexp.QuoteMeta(field) + space + `*=` + space + `*listOf` + space + `*\((.*?)\)`)
}

// ExtractID returns the pattern identifier of block, or false if the block
// has no id = "VIB<digits>" assignment.
func ExtractID(block string) (string, bool) {
	m := idRe.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// ExtractLongArray returns the integers inside the first longArrayOf(...) in
// block. It reports false when block has no longArrayOf at all, so callers
// can tell an absent field from an empty one.
func ExtractLongArray(block string) ([]int64, bool) {
	nums, _, ok := extractIntegers(longArrayRe, block)
	return nums, ok
}

// ExtractIntArray is ExtractLongArray for intArrayOf(...).
func ExtractIntArray(block string) ([]int64, bool) {
	nums, _, ok := extractIntegers(intArrayRe, block)
	return nums, ok
}

// extractIntegers also returns how many literals were dropped for not
// fitting in an int64.
func extractIntegers(re *regexp.Regexp, block string) ([]int64, int, bool) {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return nil, 0, false
	}
	nums := []int64{}
	dropped := 0
	for _, lit := range integerRe.FindAllString(m[1], -1) {
		n, ok := parseInteger(lit)
		if !ok {
			dropped++
			continue
		}
		nums = append(nums, n)
	}
	return nums, dropped, true
}

// parseInteger converts a literal matched by integerRe, accepting decimal
// digits from any script. It reports false when the value overflows int64.
func parseInteger(lit string) (int64, bool) {
	digits, neg := strings.CutPrefix(lit, "-")
	var n uint64
	for _, r := range digits {
		d := uint64(digitValue(r))
		if n > (math.MaxUint64-d)/10 {
			return 0, false
		}
		n = n*10 + d
	}
	switch {
	case neg && n == 1<<63:
		return math.MinInt64, true
	case n > math.MaxInt64:
		return 0, false
	case neg:
		return -int64(n), true
	}
	return int64(n), true
}

// digitValue returns the value of a Unicode decimal digit. Decimal digits
// are encoded in contiguous runs of ten starting at zero, so the offset
// from the start of the run gives the value.
func digitValue(r rune) int {
	if r >= '0' && r <= '9' {
		return int(r - '0')
	}
	n := 0
	for unicode.Is(unicode.Nd, r-rune(n)-1) {
		n++
	}
	return n % 10
}

// ExtractStringList returns the quoted literals inside the first
// "<field> = listOf(...)" in block. An absent field yields an empty list.
func ExtractStringList(field, block string) []string {
	re, ok := listRes[field]
	if !ok {
		re = listPattern(field)
	}
	values := []string{}
	m := re.FindStringSubmatch(block)
	if m == nil {
		return values
	}
	for _, q := range quotedRe.FindAllStringSubmatch(m[1], -1) {
		values = append(values, q[1])
	}
	return values
}

// ExtractImagePath returns the drawable name assigned to imagePath, or false
// if block has none.
func ExtractImagePath(block string) (string, bool) {
	m := imageRe.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	return m[1], true
}
