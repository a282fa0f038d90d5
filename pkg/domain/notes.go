package domain

import (
	"encoding/json"
	"time"
)

// WorkInstructionsLabel labels the first entry of every note history.
const WorkInstructionsLabel = "Work Instructions"

// NoteStampFormat is the layout of generated note labels, e.g.
// "02/13/2019 @ 04:45:06 PM by Brandon".
const NoteStampFormat = "01/02/2006 @ 03:04:05 PM"

// Note is one labeled entry in a project's note history.
type Note struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Notes is the chronological documentation of a project. The first entry is
// always labeled with WorkInstructionsLabel and is set at construction;
// subsequent entries carry a generated timestamp-and-author label and are
// appended, never reordered or removed.
type Notes struct {
	entries []Note
}

// NewNotes constructs a note history seeded with the work instructions.
func NewNotes(workInstructions string) Notes {
	return Notes{entries: []Note{{Label: WorkInstructionsLabel, Text: workInstructions}}}
}

// Add appends a note labeled with the current timestamp and its author.
func (n *Notes) Add(text, author string, now time.Time) {
	n.entries = append(n.entries, Note{
		Label: now.Format(NoteStampFormat) + " by " + author,
		Text:  text,
	})
}

// WorkInstructions returns the text of the seed entry.
func (n Notes) WorkInstructions() string {
	if len(n.entries) == 0 {
		return ""
	}
	return n.entries[0].Text
}

// Entries returns a copy of the history in chronological order.
func (n Notes) Entries() []Note {
	return append([]Note(nil), n.entries...)
}

// Len returns the number of entries.
func (n Notes) Len() int { return len(n.entries) }

// Clone returns a deep copy of the history.
func (n Notes) Clone() Notes {
	return Notes{entries: append([]Note(nil), n.entries...)}
}

// MarshalJSON serialises the history as an ordered entry array.
func (n Notes) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.entries)
}

// UnmarshalJSON hydrates the history from an ordered entry array.
func (n *Notes) UnmarshalJSON(data []byte) error {
	var entries []Note
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	n.entries = entries
	return nil
}
