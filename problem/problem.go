package problem

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// IDWidth is the number of digits in a padded problem ID.
const IDWidth = 5

// NameSeparator sits between the problem number and its title on judge
// pages, e.g. "100 - The 3n + 1 problem".
const NameSeparator = " - "

// Metadata describes one archived problem. It is persisted as info.json in
// the problem's workspace and never modified after creation. Field order is
// the key order of the written file.
type Metadata struct {
	Name           string `json:"Name"`
	ID             string `json:"ID"`
	OnlineJudgeURL string `json:"Online Judge URL"`
	ExternalURL    string `json:"External URL"`
}

// Validate checks that every field is present and that ID is a padded
// number.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("name is empty")
	}
	if !IsPaddedID(m.ID) {
		return fmt.Errorf("id %q is not a %d-digit number", m.ID, IDWidth)
	}
	if m.OnlineJudgeURL == "" {
		return fmt.Errorf("online judge URL is empty")
	}
	if m.ExternalURL == "" {
		return fmt.Errorf("external URL is empty")
	}
	return nil
}

// SortByID orders records by ID ascending. IDs are fixed width, so string
// order is numeric order.
func SortByID(records []Metadata) {
	slices.SortStableFunc(records, func(a, b Metadata) int {
		return strings.Compare(a.ID, b.ID)
	})
}

// ParseError reports a problem name that does not have the expected
// "<number> - <title>" shape, or a page that has no name at all.
type ParseError struct {
	Input  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Input == "" {
		return fmt.Sprintf("failed to parse problem name: %s", e.Reason)
	}
	return fmt.Sprintf("failed to parse problem name %q: %s", e.Input, e.Reason)
}

// ScrapedName is a problem name as shown by the judge, split at its leading
// numeric token.
type ScrapedName struct {
	Raw       string
	Number    int
	Token     string
	Remainder string // everything after Token, spacing preserved
	Title     string
}

// ParseName splits a scraped name such as "100 - The 3n + 1 problem". The
// first whitespace-delimited token must be purely numeric and at most IDWidth
// digits long.
func ParseName(raw string) (*ScrapedName, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, &ParseError{Input: raw, Reason: "name is empty"}
	}

	token, remainder := trimmed, ""
	if idx := strings.IndexFunc(trimmed, unicode.IsSpace); idx >= 0 {
		token, remainder = trimmed[:idx], trimmed[idx:]
	}

	if !isDigits(token) {
		return nil, &ParseError{Input: raw, Reason: fmt.Sprintf("leading token %q is not a number", token)}
	}
	if len(token) > IDWidth {
		return nil, &ParseError{Input: raw, Reason: fmt.Sprintf("number %q has more than %d digits", token, IDWidth)}
	}

	number, err := strconv.Atoi(token)
	if err != nil {
		return nil, &ParseError{Input: raw, Reason: err.Error()}
	}

	title := stripSeparator(remainder)
	if strings.TrimSpace(title) == "" || strings.TrimSpace(remainder) == strings.TrimSpace(NameSeparator) {
		return nil, &ParseError{Input: raw, Reason: "title is empty"}
	}

	return &ScrapedName{
		Raw:       trimmed,
		Number:    number,
		Token:     token,
		Remainder: remainder,
		Title:     title,
	}, nil
}

// ID returns the zero-padded problem number.
func (n *ScrapedName) ID() string {
	return PadID(n.Number)
}

// DirName returns the workspace directory name "<padded ID> - <title>".
// The separator is always NameSeparator, whatever the judge showed, so the
// name matches the solution path linked from the README.
func (n *ScrapedName) DirName() string {
	return n.ID() + NameSeparator + n.Title
}

// PadID left-pads a problem number with zeros to IDWidth digits.
func PadID(number int) string {
	return fmt.Sprintf("%0*d", IDWidth, number)
}

// IsPaddedID reports whether id is exactly IDWidth ASCII digits.
func IsPaddedID(id string) bool {
	return len(id) == IDWidth && isDigits(id)
}

// stripSeparator drops one separator unit from the front of s: the judge
// separator if present, otherwise a single whitespace rune.
func stripSeparator(s string) string {
	if rest, ok := strings.CutPrefix(s, NameSeparator); ok {
		return rest
	}
	if s == "" {
		return s
	}
	_, size := utf8.DecodeRuneInString(s)
	return s[size:]
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
