package pdf

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ledongthucBackend parses the whole document with the pure-Go pdf reader.
// It is the cheap path: no content-stream decoding, no object optimization.
type ledongthucBackend struct{}

func (b *ledongthucBackend) name() string { return "ledongthuc" }

func (b *ledongthucBackend) parse(buf []byte) (*ParseResult, error) {
	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return nil, fmt.Errorf("ledongthuc: %w", err)
	}

	res := newParseResult()
	res.PageCount = reader.NumPage()

	if plain, err := reader.GetPlainText(); err == nil {
		var sb strings.Builder
		if _, err := io.Copy(&sb, plain); err == nil {
			res.Text = strings.TrimSpace(sb.String())
		}
	}

	// Document info dictionary, when present.
	info := reader.Trailer().Key("Info")
	if !info.IsNull() {
		for _, key := range info.Keys() {
			val := info.Key(key)
			if val.Kind() == pdf.String {
				if s := strings.TrimSpace(val.Text()); s != "" {
					res.Info[strings.ToLower(key)] = s
				}
			}
		}
	}

	return res, nil
}
