package lexicon

import (
	"fmt"
	"slices"
	"strings"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Listing is what the word list shows for the current view state.
type Listing struct {
	Heading   string
	Rows      []Match
	Searching bool
	// Empty is the placeholder line when Rows is empty.
	Empty string
}

// IndexEntry is one stop on the alphabet strip. The "All" entry has an
// empty Letter.
type IndexEntry struct {
	Label    string
	Letter   string
	HasWords bool
	Active   bool
}

// View holds the transient browsing state over a Store: the letter filter,
// the live search query, the word open in the detail pane, and a removal
// waiting for confirmation. Every mutation goes through the injected store,
// so listings are always computed from current data.
type View struct {
	store *Store

	letter string
	query  string

	detail     string
	detailOpen bool
	note       string

	pending    string
	hasPending bool
}

func NewView(store *Store) *View {
	return &View{store: store}
}

func (v *View) Store() *Store { return v.store }

func (v *View) Add(word string) (Added, error) {
	return v.store.Add(word)
}

// RequestRemove stages word for removal and returns the confirmation
// prompt. Nothing changes until ConfirmRemove.
func (v *View) RequestRemove(word string) (string, error) {
	if !v.store.Contains(word) {
		return "", ErrNotFound
	}
	v.pending = word
	v.hasPending = true
	return fmt.Sprintf("Delete \"%s\" from your lexicon?", word), nil
}

func (v *View) PendingRemoval() (string, bool) {
	return v.pending, v.hasPending
}

func (v *View) CancelRemove() {
	v.pending = ""
	v.hasPending = false
}

// ConfirmRemove applies the staged removal and closes the detail pane if it
// was showing that word.
func (v *View) ConfirmRemove() (Removed, error) {
	if !v.hasPending {
		return Removed{}, ErrNoPendingRemoval
	}
	word := v.pending
	v.CancelRemove()

	removed, err := v.store.Remove(word)
	// the word can be gone even when err is set, if only its note lingered
	if v.detailOpen && v.detail == word && !v.store.Contains(word) {
		v.CloseDetail()
	}
	return removed, err
}

// SelectLetter filters the list to one letter, or to every word when letter
// is empty. Any search in progress is dropped.
func (v *View) SelectLetter(letter string) {
	v.letter = GroupKey(strings.TrimSpace(letter))
	v.query = ""
}

func (v *View) Letter() string { return v.letter }

func (v *View) Search(query string) {
	v.query = query
}

func (v *View) Query() string { return v.query }

// JumpToBestMatch opens the best match for the current query and clears
// the query. It reports false when nothing matched.
func (v *View) JumpToBestMatch() (string, bool, error) {
	word, ok := v.store.Jump(v.query)
	if !ok {
		return "", false, nil
	}
	if _, err := v.OpenDetail(word); err != nil {
		return "", false, err
	}
	v.query = ""
	return word, true, nil
}

func (v *View) OpenDetail(word string) (string, error) {
	note, err := v.store.Note(word)
	if err != nil {
		return "", err
	}
	v.detail = word
	v.detailOpen = true
	v.note = note
	return note, nil
}

// EditNote saves text as the open word's note immediately.
func (v *View) EditNote(text string) error {
	if !v.detailOpen {
		return ErrDetailClosed
	}
	if err := v.store.SetNote(v.detail, text); err != nil {
		return err
	}
	v.note = text
	return nil
}

func (v *View) CloseDetail() {
	v.detail = ""
	v.detailOpen = false
	v.note = ""
}

func (v *View) Detail() (word, note string, open bool) {
	return v.detail, v.note, v.detailOpen
}

func (v *View) Listing() Listing {
	if q := strings.TrimSpace(v.query); q != "" {
		return Listing{
			Heading:   fmt.Sprintf("Search results for \"%s\"", q),
			Rows:      v.store.Search(q),
			Searching: true,
			Empty:     "No words found.",
		}
	}

	var l Listing
	if v.letter == "" {
		l.Heading = "All Words"
		l.Empty = "Your lexicon is empty. Add some words!"
	} else {
		l.Heading = fmt.Sprintf("Words starting with \"%s\"", v.letter)
		l.Empty = "No words found for this letter."
	}
	for _, w := range v.store.ListByLetter(v.letter) {
		l.Rows = append(l.Rows, Match{Word: w})
	}
	return l
}

// Index builds the alphabet strip: All, A through Z, then any other group
// keys present (digits, accented letters).
func (v *View) Index() []IndexEntry {
	present := v.store.Letters()
	entries := make([]IndexEntry, 0, len(alphabet)+1+len(present))
	entries = append(entries, IndexEntry{
		Label:    "All",
		HasWords: len(present) > 0,
		Active:   v.letter == "",
	})
	for _, r := range alphabet {
		letter := string(r)
		entries = append(entries, IndexEntry{
			Label:    letter,
			Letter:   letter,
			HasWords: slices.Contains(present, letter),
			Active:   v.letter == letter,
		})
	}
	for _, letter := range present {
		if len(letter) == 1 && strings.Contains(alphabet, letter) {
			continue
		}
		entries = append(entries, IndexEntry{
			Label:    letter,
			Letter:   letter,
			HasWords: true,
			Active:   v.letter == letter,
		})
	}
	return entries
}
