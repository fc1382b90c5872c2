package stream

import (
	"bytes"
	"errors"
	"iter"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lumen/internal/apperr"
	"github.com/dshills/lumen/internal/providers"
)

type step struct {
	frag providers.Fragment
	err  error
}

func seqOf(steps ...step) iter.Seq2[providers.Fragment, error] {
	return func(yield func(providers.Fragment, error) bool) {
		for _, s := range steps {
			if !yield(s.frag, s.err) {
				return
			}
		}
	}
}

func text(s string) step { return step{frag: providers.Fragment{Text: s}} }

var done = step{frag: providers.Fragment{Done: true}}

func TestCollect(t *testing.T) {
	var sink bytes.Buffer
	got, err := Collect(seqOf(text("feat: "), text("update foo"), done), &sink)
	require.NoError(t, err)
	assert.Equal(t, "feat: update foo", got)
	assert.Equal(t, "feat: update foo", sink.String())
}

func TestCollect_ZeroFragments(t *testing.T) {
	var sink bytes.Buffer
	got, err := Collect(seqOf(done), &sink)
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Zero(t, sink.Len())

	got, err = Collect(seqOf(), nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestCollect_ErrorKeepsWrittenText(t *testing.T) {
	boom := apperr.Protocol(0, "claude API error: overloaded_error: Overloaded")
	var sink bytes.Buffer

	got, err := Collect(seqOf(text("partial "), text("answer"), step{err: boom}, text("never")), &sink)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "", got)
	assert.Equal(t, "partial answer", sink.String())
}

func TestCollect_StopsAtFirstError(t *testing.T) {
	pulled := 0
	seq := func(yield func(providers.Fragment, error) bool) {
		for _, s := range []step{text("a"), {err: errors.New("first")}, {err: errors.New("second")}} {
			pulled++
			if !yield(s.frag, s.err) {
				return
			}
		}
	}

	_, err := Collect(seq, nil)
	assert.EqualError(t, err, "first")
	assert.Equal(t, 2, pulled)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("broken pipe") }

func TestCollect_SinkError(t *testing.T) {
	_, err := Collect(seqOf(text("x"), done), failWriter{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken pipe")
}
