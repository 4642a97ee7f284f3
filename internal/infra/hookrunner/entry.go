package hookrunner

import (
	"fmt"
	"strings"
	"unicode"
)

// splitEntry breaks a hook entry into argv words. Single and double
// quotes group words the way a POSIX shell would, without expansion.
func splitEntry(entry string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	var quote rune

	for _, r := range entry {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case unicode.IsSpace(r):
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}

	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote in entry %q", quote, entry)
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
