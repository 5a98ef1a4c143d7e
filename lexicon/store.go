// Package lexicon keeps a word list grouped by first letter, a free-text
// note per word, and the view state that browses them.
//
// The whole grouping is persisted as one snapshot under the "lexicon" key
// after every mutation. Notes live beside it under "word_<word>".
package lexicon

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/electr1fy0/lexicon/storage"
)

const (
	snapshotKey   = "lexicon"
	noteKeyPrefix = "word_"
)

func noteKey(word string) string { return noteKeyPrefix + word }

// GroupKey is the uppercased first rune of word.
func GroupKey(word string) string {
	if word == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(word)
	return string(unicode.ToUpper(r))
}

type Added struct {
	Word   string
	Letter string
	// NewGroup is set when Word opened a letter that had no words, so the
	// letter index has to be rebuilt.
	NewGroup bool
}

type Removed struct {
	Word         string
	Letter       string
	GroupDeleted bool
}

// Store owns the grouped words and writes through to a storage.KV.
type Store struct {
	kv     storage.KV
	groups map[string][]string
	log    *zap.Logger
}

type Option func(*Store)

func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open reads the snapshot from kv, or starts an empty lexicon.
func Open(kv storage.KV, opts ...Option) (*Store, error) {
	s := &Store{
		kv:     kv,
		groups: make(map[string][]string),
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	raw, ok, err := kv.Get(snapshotKey)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	if !ok {
		return s, nil
	}

	var loaded map[string][]string
	if err := json.Unmarshal([]byte(raw), &loaded); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	for letter, words := range loaded {
		if len(words) == 0 {
			continue
		}
		words = slices.Clone(words)
		slices.Sort(words)
		s.groups[letter] = slices.Compact(words)
	}
	s.log.Debug("lexicon loaded", zap.Int("letters", len(s.groups)), zap.Int("words", s.Len()))
	return s, nil
}

func (s *Store) persist() error {
	data, err := json.Marshal(s.groups)
	if err != nil {
		return fmt.Errorf("encode lexicon: %w", err)
	}
	if err := s.kv.Set(snapshotKey, string(data)); err != nil {
		s.log.Error("persist lexicon", zap.Error(err))
		return fmt.Errorf("write lexicon: %w", err)
	}
	return nil
}

// commit persists next as the new grouping and only adopts it once the
// write succeeded.
func (s *Store) commit(next map[string][]string) error {
	prev := s.groups
	s.groups = next
	if err := s.persist(); err != nil {
		s.groups = prev
		return err
	}
	return nil
}

func (s *Store) Add(word string) (Added, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return Added{}, ErrEmptyWord
	}
	if !utf8.ValidString(word) {
		return Added{}, ErrInvalidWord
	}
	letter := GroupKey(word)
	group := s.groups[letter]
	if slices.Contains(group, word) {
		return Added{}, &DuplicateError{Word: word, Letter: letter}
	}

	updated := append(slices.Clone(group), word)
	slices.Sort(updated)

	next := maps.Clone(s.groups)
	next[letter] = updated
	if err := s.commit(next); err != nil {
		return Added{}, err
	}

	added := Added{Word: word, Letter: letter, NewGroup: len(group) == 0}
	s.log.Debug("word added",
		zap.String("word", word),
		zap.String("letter", letter),
		zap.Bool("new_group", added.NewGroup))
	return added, nil
}

// Remove applies a removal. Callers that face a user go through
// View.RequestRemove and View.ConfirmRemove instead.
func (s *Store) Remove(word string) (Removed, error) {
	letter := GroupKey(word)
	group := s.groups[letter]
	idx := slices.Index(group, word)
	if idx < 0 {
		return Removed{}, ErrNotFound
	}

	next := maps.Clone(s.groups)
	remaining := slices.Delete(slices.Clone(group), idx, idx+1)
	if len(remaining) == 0 {
		delete(next, letter)
	} else {
		next[letter] = remaining
	}
	if err := s.commit(next); err != nil {
		return Removed{}, err
	}

	removed := Removed{Word: word, Letter: letter, GroupDeleted: len(remaining) == 0}
	if err := s.kv.Delete(noteKey(word)); err != nil {
		return removed, fmt.Errorf("delete note for %q: %w", word, err)
	}
	s.log.Debug("word removed",
		zap.String("word", word),
		zap.String("letter", letter),
		zap.Bool("group_deleted", removed.GroupDeleted))
	return removed, nil
}

func (s *Store) Contains(word string) bool {
	return slices.Contains(s.groups[GroupKey(word)], word)
}

func (s *Store) Len() int {
	n := 0
	for _, words := range s.groups {
		n += len(words)
	}
	return n
}

// Letters returns the group keys that currently hold words.
func (s *Store) Letters() []string {
	return slices.Sorted(maps.Keys(s.groups))
}

// All flattens every group and sorts the union. Group order alone does not
// give a global order once keys outside A-Z are present.
func (s *Store) All() []string {
	all := make([]string, 0, s.Len())
	for _, words := range s.groups {
		all = append(all, words...)
	}
	slices.Sort(all)
	return all
}

// ListByLetter returns the words filed under letter, or every word when
// letter is empty.
func (s *Store) ListByLetter(letter string) []string {
	if letter == "" {
		return s.All()
	}
	return slices.Clone(s.groups[GroupKey(letter)])
}

type noteRecord struct {
	Notes string `json:"notes"`
}

// Note returns the note for word, creating an empty record the first time
// the word is opened.
func (s *Store) Note(word string) (string, error) {
	if !s.Contains(word) {
		return "", ErrNotFound
	}
	raw, ok, err := s.kv.Get(noteKey(word))
	if err != nil {
		return "", fmt.Errorf("read note for %q: %w", word, err)
	}
	if !ok {
		if err := s.writeNote(word, ""); err != nil {
			return "", err
		}
		return "", nil
	}
	var rec noteRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return "", fmt.Errorf("decode note for %q: %w", word, err)
	}
	return rec.Notes, nil
}

// SetNote replaces the stored note for word. Every call is a full write;
// nothing is buffered.
func (s *Store) SetNote(word, text string) error {
	if !s.Contains(word) {
		return ErrNotFound
	}
	return s.writeNote(word, text)
}

func (s *Store) writeNote(word, text string) error {
	data, err := json.Marshal(noteRecord{Notes: text})
	if err != nil {
		return fmt.Errorf("encode note for %q: %w", word, err)
	}
	if err := s.kv.Set(noteKey(word), string(data)); err != nil {
		s.log.Error("persist note", zap.String("word", word), zap.Error(err))
		return fmt.Errorf("write note for %q: %w", word, err)
	}
	return nil
}

// Notes returns every stored note that belongs to a word still in the
// lexicon. Empty notes are skipped.
func (s *Store) Notes() (map[string]string, error) {
	keys, err := s.kv.Keys(noteKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	notes := make(map[string]string, len(keys))
	for _, key := range keys {
		word := strings.TrimPrefix(key, noteKeyPrefix)
		if !s.Contains(word) {
			continue
		}
		raw, ok, err := s.kv.Get(key)
		if err != nil {
			return nil, fmt.Errorf("read note for %q: %w", word, err)
		}
		if !ok {
			continue
		}
		var rec noteRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, fmt.Errorf("decode note for %q: %w", word, err)
		}
		if rec.Notes != "" {
			notes[word] = rec.Notes
		}
	}
	return notes, nil
}
