package pdf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesage/docextract/internal/domain"
	"github.com/notesage/docextract/internal/observability"
)

type stubBackend struct {
	id     string
	res    *ParseResult
	err    error
	panics bool
	calls  int
}

func (s *stubBackend) name() string { return s.id }

func (s *stubBackend) parse(buf []byte) (*ParseResult, error) {
	s.calls++
	if s.panics {
		panic("unexpected xref entry")
	}
	return s.res, s.err
}

func TestAdapterFirstBackendComplete(t *testing.T) {
	first := &stubBackend{id: "first", res: &ParseResult{Text: "hello", PageCount: 2}}
	second := &stubBackend{id: "second", res: &ParseResult{Text: "other"}}
	a := newAdapterWithBackends(observability.Nop(), first, second)

	res, err := a.Parse([]byte("%PDF-1.4"))
	require.NoError(t, err)

	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, 2, res.PageCount)
	assert.Zero(t, second.calls, "chain should stop once text and page count are known")
}

func TestAdapterMergesPartialResults(t *testing.T) {
	first := &stubBackend{id: "text-only", res: &ParseResult{
		Text: "body", Info: map[string]string{"title": "Doc"},
	}}
	second := &stubBackend{id: "structure-only", res: &ParseResult{
		PageCount: 7, Version: "1.7", Info: map[string]string{"title": "ignored", "author": "A"},
	}}
	a := newAdapterWithBackends(observability.Nop(), first, second)

	res, err := a.Parse(nil)
	require.NoError(t, err)

	assert.Equal(t, "body", res.Text)
	assert.Equal(t, 7, res.PageCount)
	assert.Equal(t, "1.7", res.Version)
	assert.Equal(t, "Doc", res.Info["title"], "first backend's info wins")
	assert.Equal(t, "A", res.Info["author"])
}

func TestAdapterSkipsFailingBackend(t *testing.T) {
	first := &stubBackend{id: "broken", err: errors.New("bad xref")}
	second := &stubBackend{id: "working", res: &ParseResult{Text: "rescued", PageCount: 1}}
	a := newAdapterWithBackends(observability.Nop(), first, second)

	res, err := a.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "rescued", res.Text)
}

func TestAdapterRecoversPanickingBackend(t *testing.T) {
	first := &stubBackend{id: "panicky", panics: true}
	second := &stubBackend{id: "working", res: &ParseResult{Text: "rescued", PageCount: 1}}
	a := newAdapterWithBackends(observability.Nop(), first, second)

	res, err := a.Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "rescued", res.Text)
}

func TestAdapterTotalFailure(t *testing.T) {
	a := newAdapterWithBackends(observability.Nop(),
		&stubBackend{id: "one", err: errors.New("bad header")},
		&stubBackend{id: "two", panics: true},
	)

	_, err := a.Parse(nil)
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindParse))
}

func TestAdapterEmptyTextIsNotAnError(t *testing.T) {
	a := newAdapterWithBackends(observability.Nop(),
		&stubBackend{id: "structure", res: &ParseResult{PageCount: 3}},
	)

	res, err := a.Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, res.Text)
	assert.Equal(t, 3, res.PageCount)
}
