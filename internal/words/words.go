// internal/words/words.go
//
// Word list management for the live room game.
//
// Responsibilities:
//   - Load the allowed-guess list from an environment-provided file or
//     fall back to the embedded default list.
//   - Maintain a set for O(1) lookups.
//   - Expose IsAllowed and Stats.
//
// Words must be 3–16 lowercase letters; everything is normalized to
// lowercase on load. Initialization runs once (sync.Once).
//
// Environment variables:
//   BOOJUM_WORDS_FILE=/path/to/words.txt

package words

import (
	"bufio"
	_ "embed"
	"errors"
	"os"
	"strings"
	"sync"
)

const (
	minLen = 3
	maxLen = 16
)

//go:embed default_words.txt
var embeddedWords string

var (
	initOnce   sync.Once
	allowedSet map[string]struct{}
	initialErr error
)

// Init loads the word list exactly once.
// Returns an error if the list ends up empty.
func Init() error {
	initOnce.Do(func() {
		var list []string
		if path := os.Getenv("BOOJUM_WORDS_FILE"); path != "" {
			var err error
			list, err = readWordFile(path)
			if err != nil {
				initialErr = err
				return
			}
		} else {
			list = normalizeLines(embeddedWords)
		}
		allowedSet = make(map[string]struct{}, len(list))
		for _, w := range list {
			allowedSet[w] = struct{}{}
		}
		if len(allowedSet) == 0 {
			initialErr = errors.New("words: allowed list is empty")
		}
	})
	return initialErr
}

// readWordFile loads one word per line, lowercases, trims, and keeps only
// valid alphabetic words within the length bounds.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if w := normalize(sc.Text()); w != "" {
			out = append(out, w)
		}
	}
	return out, sc.Err()
}

func normalizeLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if w := normalize(line); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func normalize(line string) string {
	w := strings.TrimSpace(strings.ToLower(line))
	if w == "" || strings.HasPrefix(w, "#") {
		return ""
	}
	if len(w) < minLen || len(w) > maxLen || !isAlpha(w) {
		return ""
	}
	return w
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// IsAllowed reports whether w is a valid word for submission.
func IsAllowed(w string) bool {
	_, ok := allowedSet[strings.ToLower(w)]
	return ok
}

// Stats returns the count of loaded words.
func Stats() int { return len(allowedSet) }
