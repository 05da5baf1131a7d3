// Package gojson provides a goccy/go-json backed token source. It is the
// default JSON driver of lossy.
package gojson

import (
	"bytes"
	"errors"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	eng "github.com/reoring/lossy/internal/engine"
)

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
	size int64
	err  error
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
// The input is buffered and validated first: the go-json tokenizer does not
// check separators on its own.
func NewReader(r io.Reader) eng.TokenSource {
	b, err := io.ReadAll(r)
	if err != nil {
		return &source{err: err}
	}
	return NewBytes(b)
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource {
	s := &source{size: int64(len(b))}
	if !j.Valid(b) {
		s.err = syntaxError(b)
		return s
	}
	s.dec = j.NewDecoder(bytes.NewReader(b))
	s.dec.UseNumber()
	return s
}

// syntaxError prefers the decoder's own message for invalid input.
func syntaxError(b []byte) error {
	if len(bytes.TrimSpace(b)) == 0 {
		return io.ErrUnexpectedEOF
	}
	var v any
	if err := j.Unmarshal(b, &v); err != nil {
		return err
	}
	return errors.New("json: invalid syntax")
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	tok, err := s.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return eng.Token{}, io.EOF
		}
		return eng.Token{}, err
	}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case '}':
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
		case '[':
			s.keys.Open(false)
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		default:
			s.keys.Close()
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
	case string:
		if s.keys.String() {
			return eng.Token{Kind: eng.KindKey, String: v, Offset: -1}, nil
		}
		return eng.Token{Kind: eng.KindString, String: v, Offset: -1}, nil
	case bool:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindBool, Bool: v, Offset: -1}, nil
	case j.Number:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: string(v), Offset: -1}, nil
	case float64:
		s.keys.Scalar()
		return eng.Token{Kind: eng.KindNumber, Number: strconv.FormatFloat(v, 'g', -1, 64), Offset: -1}, nil
	}
	s.keys.Scalar()
	return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
}

// Location reports the buffered input size; the go-json tokenizer does not
// expose offsets.
func (s *source) Location() int64 { return s.size }
