package stream

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/dshills/lumen/internal/providers"
)

// Collect consumes seq once, writing each fragment's text to sink as it
// arrives. It returns the concatenated text. On the first error it returns
// "" and that error; text already written to sink is left in place.
// A nil sink only accumulates.
func Collect(seq iter.Seq2[providers.Fragment, error], sink io.Writer) (string, error) {
	var b strings.Builder
	for f, err := range seq {
		if err != nil {
			return "", err
		}
		if f.Text == "" {
			continue
		}
		if sink != nil {
			if _, err := io.WriteString(sink, f.Text); err != nil {
				return "", fmt.Errorf("writing output: %w", err)
			}
		}
		b.WriteString(f.Text)
	}
	return b.String(), nil
}
