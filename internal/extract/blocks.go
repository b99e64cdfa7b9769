// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "regexp"

// FindBlocks returns every span of text that starts at an occurrence of
// keyword followed by an opening parenthesis and ends at the parenthesis
// that closes it. Whitespace is allowed between keyword and "(".
//
// Each occurrence is scanned independently, so a keyword nested inside an
// earlier block yields its own block too. An occurrence whose parenthesis
// never closes yields nothing. Blocks are returned in order of appearance.
func FindBlocks(text, keyword string) []string {
	re := regexp.MustCompile(regexp.QuoteMeta(keyword) + space + `*\(`)

	var blocks []string
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if end := closingParen(text, loc[1]-1); end >= 0 {
			blocks = append(blocks, text[loc[0]:end+1])
		}
	}
	return blocks
}

// closingParen returns the index of the ")" matching the "(" at open, or -1
// if the text ends first.
func closingParen(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}
