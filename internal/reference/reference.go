// Package reference parses scripture references and computes the
// neighbouring single-verse references used for navigation.
package reference

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Reference is a single verse location.
type Reference struct {
	Book    string
	Chapter int
	Verse   int
}

// String renders the reference in the form the lookup service accepts.
func (r Reference) String() string {
	return fmt.Sprintf("%s %d:%d", r.Book, r.Chapter, r.Verse)
}

// Valid reports whether the reference can be navigated from. Chapter and
// verse must leave room for the next value without overflowing.
func (r Reference) Valid() bool {
	return r.Book != "" &&
		r.Chapter >= 1 && r.Chapter < math.MaxInt &&
		r.Verse >= 1 && r.Verse < math.MaxInt
}

// Parse extracts book, chapter and verse from strings like "John 3:16" or
// "1 Corinthians 13:4". The chapter:verse pair must end the string, so ranges
// such as "Proverbs 3:5-6" are rejected. A false result means navigation is
// unsupported, not that the lookup failed.
func Parse(raw string) (Reference, bool) {
	s := strings.TrimSpace(raw)

	// Phase one: the trailing <digits>:<digits> suffix.
	verseStart := len(s)
	for verseStart > 0 && isDigit(s[verseStart-1]) {
		verseStart--
	}
	if verseStart == len(s) || verseStart == 0 || s[verseStart-1] != ':' {
		return Reference{}, false
	}
	colon := verseStart - 1
	chapterStart := colon
	for chapterStart > 0 && isDigit(s[chapterStart-1]) {
		chapterStart--
	}
	if chapterStart == colon {
		return Reference{}, false
	}

	// Phase two: whitespace, then everything before it is the book.
	bookPart := s[:chapterStart]
	book := strings.TrimRightFunc(bookPart, unicode.IsSpace)
	if book == "" || len(book) == len(bookPart) {
		return Reference{}, false
	}

	chapter, err := strconv.Atoi(s[chapterStart:colon])
	if err != nil || chapter < 1 {
		return Reference{}, false
	}
	verse, err := strconv.Atoi(s[verseStart:])
	if err != nil || verse < 1 {
		return Reference{}, false
	}

	ref := Reference{Book: book, Chapter: chapter, Verse: verse}
	if !ref.Valid() {
		return Reference{}, false
	}
	return ref, true
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
