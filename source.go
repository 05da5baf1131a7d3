package lossy

import (
	"io"
	"sync"

	eng "github.com/reoring/lossy/internal/engine"
	gojsonsrc "github.com/reoring/lossy/source/gojson"
	jsonsrc "github.com/reoring/lossy/source/json"
	yamlsrc "github.com/reoring/lossy/source/yaml"
)

// Source produces the token stream of one input document.
type Source = eng.TokenSource

// Token describes a token in the input stream. Offset records the byte
// position when known (-1 otherwise).
type Token = eng.Token

// TokenKind enumerates token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// JSONDriver converts JSON input into a Source via a pluggable SPI. The
// default implementation is based on goccy/go-json and may be swapped with
// SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = goJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the goccy/go-json driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = goJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver used by JSONBytes and JSONReader.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// GoJSONDriver returns the goccy/go-json driver.
func GoJSONDriver() JSONDriver { return goJSONDriver{} }

// StdJSONDriver returns the encoding/json driver. It reports byte offsets,
// which the size limit check relies on for streamed input.
func StdJSONDriver() JSONDriver { return stdJSONDriver{} }

type goJSONDriver struct{}

func (goJSONDriver) NewReader(r io.Reader) Source { return gojsonsrc.NewReader(r) }
func (goJSONDriver) NewBytes(b []byte) Source     { return gojsonsrc.NewBytes(b) }
func (goJSONDriver) Name() string                 { return "goccy/go-json" }

type stdJSONDriver struct{}

func (stdJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (stdJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (stdJSONDriver) Name() string                 { return "encoding/json" }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// YAMLReader wraps an io.Reader as a YAML Source. Only the first document
// is read.
func YAMLReader(r io.Reader) Source { return yamlsrc.NewReader(r) }

// YAMLBytes wraps a byte slice as a YAML Source.
func YAMLBytes(b []byte) Source { return yamlsrc.NewBytes(b) }
