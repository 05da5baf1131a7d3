package lossy

// Severity expresses how an input-level finding is treated.
type Severity int

const (
	Ignore Severity = iota // Accept silently.
	Warn                   // Record a loss and continue.
	Error                  // Fail the decode.
)

// Strictness configures input enforcement.
type Strictness struct {
	OnDuplicateKey Severity // Ignore keeps the last value; Warn also records a loss.
}

// DecodeOpt bundles decoding options. When several are passed to an entry
// point the last one wins.
type DecodeOpt struct {
	Strictness Strictness
	MaxDepth   int   // 0 disables the check.
	MaxBytes   int64 // 0 disables the check.
	// DisallowUnknownKeys makes struct decoding fail on members that map to
	// no field.
	DisallowUnknownKeys bool
	// UseNumber decodes numbers inside interface values as json.Number.
	UseNumber bool
	// Debug enables development diagnostics for the session.
	Debug bool
}

func lastOpt(opts []DecodeOpt) DecodeOpt {
	if len(opts) == 0 {
		return DecodeOpt{}
	}
	return opts[len(opts)-1]
}
