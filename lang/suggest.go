package lang

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/sahilm/fuzzy"
)

// maxSuggestions limits the candidates attached to a name error.
const maxSuggestions = 3

// Suggest returns up to three candidates that fuzzy-match name, best first.
func Suggest(name string, candidates []string) []string {
	candidates = slices.DeleteFunc(slices.Clone(candidates), func(s string) bool {
		return s == name
	})

	matches := fuzzy.Find(name, candidates)

	var out []string

	for _, m := range matches {
		if slices.Contains(out, m.Str) {
			continue
		}

		out = append(out, m.Str)

		if len(out) == maxSuggestions {
			break
		}
	}

	return out
}

// nameError returns an [ErrName] for tok, with suggestions drawn from
// candidates when any match.
func nameError(tok Token, candidates []string) *Error {
	err := ErrName.at(tok)

	if s := Suggest(tok.Value, candidates); len(s) > 0 {
		err = err.With(slog.String("did_you_mean", strings.Join(s, ", ")))
	}

	return err
}
