package lexicon

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyWord        = errors.New("lexicon: empty word")
	ErrInvalidWord      = errors.New("lexicon: word is not valid UTF-8")
	ErrNotFound         = errors.New("lexicon: word not found")
	ErrDetailClosed     = errors.New("lexicon: no word is open")
	ErrNoPendingRemoval = errors.New("lexicon: no removal awaiting confirmation")
)

// DuplicateError is returned by Add when the exact word is already filed
// under its letter.
type DuplicateError struct {
	Word   string
	Letter string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("lexicon: %q already filed under %s", e.Word, e.Letter)
}

// Notice turns a validation error into the sentence shown to the user.
// Anything it does not recognise is returned as err.Error().
func Notice(err error) string {
	var dup *DuplicateError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyWord):
		return "Please enter a word."
	case errors.Is(err, ErrInvalidWord):
		return "That word contains characters that cannot be stored."
	case errors.As(err, &dup):
		return fmt.Sprintf("\"%s\" is already in the lexicon under letter %s.", dup.Word, dup.Letter)
	case errors.Is(err, ErrNotFound):
		return "That word is not in the lexicon."
	default:
		return err.Error()
	}
}
