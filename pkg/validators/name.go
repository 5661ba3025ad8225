package validators

import (
	"errors"
	"strings"

	"github.com/rivo/uniseg"
)

// MaxNameLength is counted in grapheme clusters, not bytes or runes.
const MaxNameLength = 256

const forbiddenNameChars = `/()"<>\{}`

var (
	ErrNameEmpty          = errors.New("no name provided")
	ErrNameTooLong        = errors.New("name is too long")
	ErrNameForbiddenChars = errors.New("name contains forbidden characters")
)

func NameValidator(n string) error {
	if strings.TrimSpace(n) == "" {
		return invalid("name", ErrNameEmpty)
	}

	if uniseg.GraphemeClusterCount(n) > MaxNameLength {
		return invalid("name", ErrNameTooLong)
	}

	if strings.ContainsAny(n, forbiddenNameChars) {
		return invalid("name", ErrNameForbiddenChars)
	}

	return nil
}
