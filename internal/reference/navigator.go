package reference

// PreviousChapterVerse is requested when stepping back across a chapter
// boundary. It is assumed to exceed any chapter's verse count; the lookup
// service decides what to return for it.
const PreviousChapterVerse = 50

// Direction selects next or previous navigation.
type Direction int

const (
	DirNext Direction = iota
	DirPrevious
)

func (d Direction) String() string {
	switch d {
	case DirNext:
		return "next"
	case DirPrevious:
		return "previous"
	default:
		return "unknown"
	}
}

// Next returns the references to try, in order, when moving forward: the
// following verse, then the first verse of the following chapter.
func Next(r Reference) []string {
	if !r.Valid() {
		return nil
	}
	return []string{
		Reference{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse + 1}.String(),
		Reference{Book: r.Book, Chapter: r.Chapter + 1, Verse: 1}.String(),
	}
}

// Previous returns the reference before r. It reports false at the first
// verse of the first chapter, where there is nothing to request.
func Previous(r Reference) (string, bool) {
	switch {
	case !r.Valid():
		return "", false
	case r.Verse > 1:
		return Reference{Book: r.Book, Chapter: r.Chapter, Verse: r.Verse - 1}.String(), true
	case r.Chapter > 1:
		return Reference{Book: r.Book, Chapter: r.Chapter - 1, Verse: PreviousChapterVerse}.String(), true
	default:
		return "", false
	}
}

// Navigate returns the candidate references for d. An empty result is a no-op.
func Navigate(r Reference, d Direction) []string {
	switch d {
	case DirNext:
		return Next(r)
	case DirPrevious:
		if prev, ok := Previous(r); ok {
			return []string{prev}
		}
	}
	return nil
}
