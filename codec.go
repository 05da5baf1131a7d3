package lossy

import (
	"context"
)

// Codec adapts lossy to Marshal/Unmarshal/Name style codec interfaces, such
// as the ones used by cache and storage layers. Losses go to Reporter, or to
// the reporter on the context passed to UnmarshalContext.
type Codec struct {
	Opt      DecodeOpt
	Reporter Reporter
	// YAML selects YAML input; output is always JSON.
	YAML bool
}

// Marshal encodes v as JSON.
func (c Codec) Marshal(v any) ([]byte, error) { return Marshal(v) }

// Unmarshal decodes data into v, which must be a pointer.
func (c Codec) Unmarshal(data []byte, v any) error {
	return c.UnmarshalContext(context.Background(), data, v)
}

// UnmarshalContext is Unmarshal with a caller context. A Reporter set on the
// codec takes precedence over one installed on ctx.
func (c Codec) UnmarshalContext(ctx context.Context, data []byte, v any) error {
	if c.Reporter != nil {
		ctx = WithReporter(ctx, c.Reporter)
	}
	if c.YAML {
		return UnmarshalYAML(ctx, data, v, c.Opt)
	}
	return Unmarshal(ctx, data, v, c.Opt)
}

// Name returns the codec identifier used for diagnostics.
func (c Codec) Name() string {
	if c.YAML {
		return "lossy/yaml"
	}
	return "lossy/json"
}
