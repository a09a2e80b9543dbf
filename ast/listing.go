package ast

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// SplitLineNumber pulls the leading line number off of text
// ok is false when text doesn't start with a digit
func SplitLineNumber(text string) (num int, rest string, ok bool) {
	text = strings.TrimLeft(text, " \t")

	i := 0
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, text, false
	}

	num, err := strconv.Atoi(text[:i])
	if err != nil {
		// far too many digits
		num = MaxLineNum + 1
	}

	return num, strings.TrimSpace(text[i:]), true
}

// ValidLineNum checks num is a usable line number
func ValidLineNum(num int) bool {
	return num >= MinLineNum && num <= MaxLineNum
}

// ReadListing reads program text, one numbered line per row
// blank rows are skipped
func ReadListing(r io.Reader) ([]SourceLine, error) {
	var lines []SourceLine

	scanner := bufio.NewScanner(r)
	row := 0
	for scanner.Scan() {
		row++
		txt := strings.TrimRight(scanner.Text(), "\r")
		if len(strings.TrimSpace(txt)) == 0 {
			continue
		}

		num, rest, ok := SplitLineNumber(txt)
		if !ok || !ValidLineNum(num) {
			return nil, fmt.Errorf("listing row %d: missing or invalid line number", row)
		}
		lines = append(lines, SourceLine{Num: num, Text: rest})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	return lines, nil
}

// WriteListing writes lines in the form ReadListing expects
func WriteListing(w io.Writer, lines []SourceLine) error {
	bw := bufio.NewWriter(w)

	for _, sl := range lines {
		if _, err := fmt.Fprintln(bw, sl.String()); err != nil {
			return fmt.Errorf("writing listing: %w", err)
		}
	}

	return bw.Flush()
}
