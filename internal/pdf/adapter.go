package pdf

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/domain"
)

// ParseResult is the normalized whole-document parse output. All fields are
// optional; an empty Text with a populated PageCount is a valid result.
type ParseResult struct {
	Text      string
	PageCount int
	Info      map[string]string
	Version   string
}

func newParseResult() *ParseResult {
	return &ParseResult{Info: make(map[string]string)}
}

func (r *ParseResult) complete() bool {
	return r.Text != "" && r.PageCount > 0
}

// backend is one parsing strategy in the adapter's fallback chain.
type backend interface {
	name() string
	parse(buf []byte) (*ParseResult, error)
}

// Adapter presents one stable whole-document parse contract over an ordered
// chain of PDF parser backends with incompatible calling conventions. Each
// backend is probed in turn and whatever partial data it yields is merged;
// the chain stops early once both text and page count are known.
type Adapter struct {
	backends []backend
	log      zerolog.Logger
}

// NewAdapter creates an adapter with the default backend chain: the
// lightweight reader first (the lower-cost path), then the structural
// context probe.
func NewAdapter(log zerolog.Logger) *Adapter {
	return &Adapter{
		backends: []backend{
			&ledongthucBackend{},
			&pdfcpuBackend{},
		},
		log: log.With().Str("component", "parser_adapter").Logger(),
	}
}

// newAdapterWithBackends is the test seam.
func newAdapterWithBackends(log zerolog.Logger, backends ...backend) *Adapter {
	return &Adapter{backends: backends, log: log}
}

// Parse runs the backend chain over buf. An empty text is a valid, non-error
// result. It returns a parse error only when no backend yields any usable
// data at all.
func (a *Adapter) Parse(buf []byte) (*ParseResult, error) {
	merged := newParseResult()
	yielded := false
	var lastErr error

	for _, b := range a.backends {
		res, err := safeParse(b, buf)
		if err != nil {
			lastErr = err
			a.log.Debug().Str("backend", b.name()).Err(err).Msg("backend failed, trying next")
			continue
		}
		if res == nil {
			continue
		}

		yielded = true
		if merged.Text == "" {
			merged.Text = res.Text
		}
		if merged.PageCount == 0 {
			merged.PageCount = res.PageCount
		}
		if merged.Version == "" {
			merged.Version = res.Version
		}
		for k, v := range res.Info {
			if _, ok := merged.Info[k]; !ok {
				merged.Info[k] = v
			}
		}

		if merged.complete() {
			break
		}
	}

	if !yielded {
		return nil, domain.ParseError("no parser backend produced any usable data", lastErr)
	}
	return merged, nil
}

// safeParse shields the chain from backends that panic on malformed input.
func safeParse(b backend, buf []byte) (res *ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("%s: panic: %v", b.name(), r)
		}
	}()
	return b.parse(buf)
}
