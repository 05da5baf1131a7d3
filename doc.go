package lossy

// Package lossy provides:
//
// - Resilient wrappers (Value, Slice, Optional, OptionalSlice) that isolate per-field decode failures
// - Loss records (raw text, path, message, cause) delivered to a Reporter carried on the context
// - A restartable Cursor over JSON or YAML input, with duplicate-key/depth/size enforcement
// - Structured DecodeError values (key not found, value not found, type mismatch, data corrupted)
//
// Design policy:
// - Keep only public APIs in the root package; put token handling under internal/ and drivers under source/.
// - A malformed field never aborts its parent unless it is a required Value.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  type Config struct {
//      Name    lossy.Value[string]      `json:"name"`
//      Ports   lossy.Slice[int]         `json:"ports"`
//      Timeout lossy.Optional[float64]  `json:"timeout"`
//  }
//
//  col := lossy.NewCollector()
//  ctx = lossy.WithReporter(ctx, col)
//  var cfg Config
//  err := lossy.Unmarshal(ctx, data, &cfg)
//  for _, l := range col.Losses() { log.Println(l.Path, l.Message, l.Raw) }
//
