package reader

// State is the single "current verse" slot of a session. Every lookup takes a
// sequence number from Begin; only the response carrying the latest number is
// applied, so a slow earlier response cannot overwrite a newer one.
type State struct {
	Current *Verse
	Busy    bool
	Message string
	Seq     uint64
}

// Begin marks a lookup as in flight and returns its sequence number.
func (s *State) Begin() uint64 {
	s.Seq++
	s.Busy = true
	s.Message = ""
	return s.Seq
}

// Resolve applies the outcome of lookup seq. On error the current verse is
// cleared and failMsg is shown. It reports false when seq is stale.
func (s *State) Resolve(seq uint64, v *Verse, err error, failMsg string) bool {
	if seq != s.Seq {
		return false
	}
	s.Busy = false
	if err != nil {
		s.Current = nil
		s.Message = failMsg
		return true
	}
	s.Current = v
	s.Message = ""
	return true
}

// Cancel clears the busy flag for a lookup that issued no request, such as
// previous-navigation from the first verse of a book.
func (s *State) Cancel(seq uint64) {
	if seq == s.Seq {
		s.Busy = false
	}
}
