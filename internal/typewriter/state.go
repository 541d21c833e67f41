package typewriter

// Snapshot is an immutable copy of the reveal progress handed to a display
// surface after every transition.
type Snapshot struct {
	Lines     []string `json:"lines"`
	Done      bool     `json:"done"`
	Cursor    bool     `json:"cursor"`
	LineIndex int      `json:"line_index"`
	CharIndex int      `json:"char_index"`
}

// RevealState tracks which prefix of every script line is visible.
// Lines are measured in runes so multi-byte characters are revealed whole.
type RevealState struct {
	script    [][]rune
	revealed  []string
	lineIndex int
	charIndex int
}

func newRevealState(script []string) *RevealState {
	lines := make([][]rune, len(script))
	for i, s := range script {
		lines[i] = []rune(s)
	}
	st := &RevealState{script: lines, revealed: []string{}}
	if len(lines) > 0 {
		// the first line is started as soon as the surface is shown
		st.revealed = append(st.revealed, "")
	}
	return st
}

// Done reports whether every line has been revealed.
func (s *RevealState) Done() bool { return s.lineIndex >= len(s.script) }

func (s *RevealState) lineComplete() bool {
	return s.charIndex >= len(s.script[s.lineIndex])
}

// reveal extends the current line by one character.
func (s *RevealState) reveal() {
	line := s.script[s.lineIndex]
	s.revealed[s.lineIndex] = string(line[:s.charIndex+1])
	s.charIndex++
}

// advance moves to the next line and starts it, if any.
func (s *RevealState) advance() {
	s.lineIndex++
	s.charIndex = 0
	if s.lineIndex < len(s.script) {
		s.revealed = append(s.revealed, "")
	}
}

func (s *RevealState) snapshot() Snapshot {
	lines := make([]string, len(s.revealed))
	copy(lines, s.revealed)
	done := s.Done()
	return Snapshot{
		Lines:     lines,
		Done:      done,
		Cursor:    !done,
		LineIndex: s.lineIndex,
		CharIndex: s.charIndex,
	}
}
