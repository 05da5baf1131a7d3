package lossy_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/reoring/lossy"
)

func TestDecodeReader_DuplicateKey_Error(t *testing.T) {
	jsb := []byte(`{"a":1,"a":2}`)
	opt := lossy.DecodeOpt{Strictness: lossy.Strictness{OnDuplicateKey: lossy.Error}}
	var v map[string]int
	err := lossy.DecodeReader(context.Background(), bytes.NewReader(jsb), &v, opt)
	if err == nil {
		t.Fatalf("expected error for duplicate key")
	}
	de, ok := lossy.AsDecodeError(err)
	if !ok {
		t.Fatalf("expected DecodeError, got: %v", err)
	}
	if de.Kind != lossy.KindDuplicateKey {
		t.Fatalf("expected duplicate_key, got: %v", de.Kind)
	}
	if p := de.FullPath().Pointer(); p != "/a" {
		t.Fatalf("expected path=/a, got: %s", p)
	}
}

func TestDecodeReader_DuplicateKey_NestedPath(t *testing.T) {
	jsb := []byte(`[{"a":1,"a":2}]`)
	opt := lossy.DecodeOpt{Strictness: lossy.Strictness{OnDuplicateKey: lossy.Error}}
	var v any
	err := lossy.DecodeReader(context.Background(), bytes.NewReader(jsb), &v, opt)
	de, ok := lossy.AsDecodeError(err)
	if !ok {
		t.Fatalf("expected DecodeError, got: %v", err)
	}
	if p := de.FullPath().Pointer(); p != "/0/a" {
		t.Fatalf("expected path=/0/a, got: %s", p)
	}
}

func TestDecode_DuplicateKey_WarnRecordsLoss(t *testing.T) {
	col := lossy.NewCollector()
	ctx := lossy.WithReporter(context.Background(), col)
	opt := lossy.DecodeOpt{Strictness: lossy.Strictness{OnDuplicateKey: lossy.Warn}}
	var v struct {
		Obj struct {
			A lossy.Value[int] `json:"a"`
		} `json:"obj"`
	}
	if err := lossy.Unmarshal(ctx, []byte(`{"obj":{"a":1,"b":0,"a":2}}`), &v, opt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := v.Obj.A.Get(); got != 2 {
		t.Fatalf("expected last value 2, got %d", got)
	}
	losses := col.Losses()
	if len(losses) != 1 {
		t.Fatalf("expected one loss, got %v", losses)
	}
	if losses[0].Message != "Duplicate key a" || losses[0].Path.String() != "obj.a" {
		t.Fatalf("unexpected loss: %+v", losses[0])
	}
}

func TestDecode_DuplicateKey_IgnoreKeepsLast(t *testing.T) {
	col := lossy.NewCollector()
	ctx := lossy.WithReporter(context.Background(), col)
	var v map[string]int
	if err := lossy.Unmarshal(ctx, []byte(`{"a":1,"a":2}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v["a"] != 2 || col.Len() != 0 {
		t.Fatalf("expected a=2 with no losses, got %v / %d", v, col.Len())
	}
}

func TestDecodeReader_MaxDepth_Exceeded(t *testing.T) {
	// depth = 3 for { a: { b: { c: 1 } } }
	jsb := []byte(`{"a":{"b":{"c":1}}}`)
	opt := lossy.DecodeOpt{MaxDepth: 2}
	var v any
	err := lossy.DecodeReader(context.Background(), bytes.NewReader(jsb), &v, opt)
	if err == nil {
		t.Fatalf("expected error for max depth exceeded")
	}
	de, ok := lossy.AsDecodeError(err)
	if !ok || de.Kind != lossy.KindParseError || de.Path.Pointer() != "/a/b" {
		t.Fatalf("expected parse_error at /a/b, got: %v", err)
	}
}

func TestDecodeReader_MaxBytes_Exceeded(t *testing.T) {
	// Provide N bytes > MaxBytes and any valid JSON prefix to ensure read path
	data := append([]byte("{}"), bytes.Repeat([]byte(" "), 1024)...)
	opt := lossy.DecodeOpt{MaxBytes: 2} // smaller than data
	var v any
	err := lossy.DecodeReader(context.Background(), bytes.NewReader(data), &v, opt)
	if !lossy.IsKind(err, lossy.KindTruncated) {
		t.Fatalf("expected truncated, got: %v", err)
	}
}

func TestDecode_MaxBytes_StdDriverStreaming(t *testing.T) {
	data := []byte(`{"a":"` + string(bytes.Repeat([]byte("x"), 64)) + `","b":1}`)
	opt := lossy.DecodeOpt{MaxBytes: 16}
	var v any
	err := lossy.Decode(context.Background(), lossy.StdJSONDriver().NewReader(bytes.NewReader(data)), &v, opt)
	if !lossy.IsKind(err, lossy.KindTruncated) {
		t.Fatalf("expected truncated, got: %v", err)
	}
}

func TestDecode_MalformedInput(t *testing.T) {
	for _, in := range []string{``, `{"a":`, `1 2`} {
		var v any
		err := lossy.Unmarshal(context.Background(), []byte(in), &v)
		if !lossy.IsKind(err, lossy.KindParseError) {
			t.Fatalf("%q: expected parse_error, got: %v", in, err)
		}
	}
}

func TestDriverSwap(t *testing.T) {
	t.Cleanup(lossy.UseDefaultJSONDriver)
	if got := lossy.CurrentJSONDriver().Name(); got != "goccy/go-json" {
		t.Fatalf("unexpected default driver %q", got)
	}
	lossy.SetJSONDriver(lossy.StdJSONDriver())
	lossy.SetJSONDriver(nil)
	if got := lossy.CurrentJSONDriver().Name(); got != "encoding/json" {
		t.Fatalf("expected encoding/json, got %q", got)
	}
	var v struct {
		Values lossy.Slice[int] `json:"values"`
	}
	if err := lossy.Unmarshal(context.Background(), []byte(`{"values":[1,"x",3]}`), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Values.Get()) != 2 {
		t.Fatalf("expected 2 values, got %v", v.Values.Get())
	}
}

func TestDecode_MalformedInput_AllJSONDrivers(t *testing.T) {
	inputs := []string{`[1 2]`, `{"a" 1}`, `[1,]`, `{"a":1,}`, `{"a":1 "b":2}`, `{"a":1}}`}
	for _, d := range []lossy.JSONDriver{lossy.GoJSONDriver(), lossy.StdJSONDriver()} {
		for _, in := range inputs {
			var v any
			err := lossy.Decode(context.Background(), d.NewBytes([]byte(in)), &v)
			if !lossy.IsKind(err, lossy.KindParseError) {
				t.Fatalf("%s %q: expected parse_error, got: %v (v=%v)", d.Name(), in, err, v)
			}
			err = lossy.Decode(context.Background(), d.NewReader(bytes.NewReader([]byte(in))), &v)
			if !lossy.IsKind(err, lossy.KindParseError) {
				t.Fatalf("%s reader %q: expected parse_error, got: %v", d.Name(), in, err)
			}
		}
	}
}

func TestDecode_MaxBytes_EveryDriver(t *testing.T) {
	jsonDoc := []byte(`{"values":[1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]}`)
	yamlDoc := []byte("values: [1,2,3,4,5,6,7,8,9,10,11,12,13,14,15]\n")
	opt := lossy.DecodeOpt{MaxBytes: 10}
	sources := map[string]lossy.Source{
		"goccy":       lossy.GoJSONDriver().NewBytes(jsonDoc),
		"goccy/read":  lossy.GoJSONDriver().NewReader(bytes.NewReader(jsonDoc)),
		"std":         lossy.StdJSONDriver().NewBytes(jsonDoc),
		"yaml":        lossy.YAMLBytes(yamlDoc),
		"yaml/reader": lossy.YAMLReader(bytes.NewReader(yamlDoc)),
	}
	for name, src := range sources {
		var v struct {
			Values lossy.Slice[int] `json:"values"`
		}
		err := lossy.Decode(context.Background(), src, &v, opt)
		if !lossy.IsKind(err, lossy.KindTruncated) {
			t.Fatalf("%s: expected truncated, got: %v (values=%v)", name, err, v.Values.Get())
		}
	}
	if _, err := lossy.Open(context.Background(), lossy.YAMLBytes(yamlDoc), opt); !lossy.IsKind(err, lossy.KindTruncated) {
		t.Fatalf("open: expected truncated, got: %v", err)
	}
	var ok struct {
		Values lossy.Slice[int] `json:"values"`
	}
	if err := lossy.Decode(context.Background(), lossy.GoJSONDriver().NewBytes(jsonDoc), &ok, lossy.DecodeOpt{MaxBytes: int64(len(jsonDoc))}); err != nil {
		t.Fatalf("document at the cap must decode: %v", err)
	}
}

func TestUnmarshalYAML_MergeKeys(t *testing.T) {
	type derived struct {
		A lossy.Value[int] `json:"a"`
		C int              `json:"c"`
	}
	var v struct {
		Derived derived `json:"derived"`
	}
	in := "base: &b {a: 1}\nderived: {<<: *b, c: 2}\n"
	if err := lossy.UnmarshalYAML(context.Background(), []byte(in), &v); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Derived.A.Get() != 1 || v.Derived.C != 2 {
		t.Fatalf("expected a=1 c=2, got %+v", v.Derived)
	}
}
