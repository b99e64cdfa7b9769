// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFindBlocks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single declaration",
			text: `val A = VibrationModel(id = "VIB001")`,
			want: []string{`VibrationModel(id = "VIB001")`},
		},
		{
			name: "nested parentheses stay inside the block",
			text: `VibrationModel(id = "VIB001", timings = longArrayOf(10, (2+3), 10)) trailing)`,
			want: []string{`VibrationModel(id = "VIB001", timings = longArrayOf(10, (2+3), 10))`},
		},
		{
			name: "whitespace before parenthesis",
			text: "VibrationModel \n(id = \"VIB002\")",
			want: []string{"VibrationModel \n(id = \"VIB002\")"},
		},
		{
			name: "multiline blocks in order",
			text: "object P {\n  val B = VibrationModel(\n    id = \"VIB002\"\n  )\n  val A = VibrationModel(\n    id = \"VIB001\"\n  )\n}",
			want: []string{
				"VibrationModel(\n    id = \"VIB002\"\n  )",
				"VibrationModel(\n    id = \"VIB001\"\n  )",
			},
		},
		{
			name: "unbalanced occurrence yields nothing",
			text: `VibrationModel(id = "VIB001", timings = longArrayOf(1, 2)`,
			want: nil,
		},
		{
			name: "unbalanced tail after a good block",
			text: `VibrationModel(id = "VIB001") VibrationModel(id = "VIB002"`,
			want: []string{`VibrationModel(id = "VIB001")`},
		},
		{
			name: "nested keyword is matched independently",
			text: `VibrationModel(id = "VIB001", inner = VibrationModel(id = "VIB002"))`,
			want: []string{
				`VibrationModel(id = "VIB001", inner = VibrationModel(id = "VIB002"))`,
				`VibrationModel(id = "VIB002")`,
			},
		},
		{
			name: "keyword without parenthesis is ignored",
			text: `import VibrationModel; VibrationModel.of()`,
			want: nil,
		},
		{
			name: "no keyword",
			text: `fun main() { println("hi") }`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindBlocks(tt.text, "VibrationModel")
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("FindBlocks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFindBlocks_KeywordIsLiteral(t *testing.T) {
	text := `Vib.Model(id = "VIB001") VibXModel(id = "VIB002")`
	got := FindBlocks(text, "Vib.Model")
	if diff := cmp.Diff([]string{`Vib.Model(id = "VIB001")`}, got); diff != "" {
		t.Errorf("FindBlocks mismatch (-want +got):\n%s", diff)
	}
}

func TestClosingParen(t *testing.T) {
	tests := []struct {
		text string
		open int
		want int
	}{
		{"()", 0, 1},
		{"(())", 0, 3},
		{"x(a(b)c)d", 1, 7},
		{"((", 0, -1},
	}
	for _, tt := range tests {
		if got := closingParen(tt.text, tt.open); got != tt.want {
			t.Errorf("closingParen(%q, %d) = %d, want %d", tt.text, tt.open, got, tt.want)
		}
	}
}
