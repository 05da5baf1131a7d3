package lossy_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"testing"

	"github.com/reoring/lossy"
)

// ---- Helpers ----

type hugeItem struct {
	ID     lossy.Value[string]    `json:"id"`
	Name   lossy.Optional[string] `json:"name"`
	Age    lossy.Optional[int]    `json:"age"`
	Active lossy.Optional[bool]   `json:"active"`
	Meta   struct {
		Score lossy.Value[int] `json:"score"`
	} `json:"meta"`
}

type smallUser struct {
	ID   lossy.Value[string]    `json:"id"`
	Name lossy.Optional[string] `json:"name"`
}

func smallUserJSON() []byte {
	return []byte(`{"id":"u_1","name":"alice"}`)
}

// generateHugeJSONArray returns a JSON array of objects of the form:
// [{"id":"obj_0","name":"n0","age":0,"active":true,"meta":{"score":0},"k0":"v0",...}, ...]
// Every badEvery-th object carries a malformed age (0 disables).
func generateHugeJSONArray(numObjects, extraFields, badEvery int) []byte {
	var buf bytes.Buffer
	buf.Grow(numObjects * (64 + extraFields*16))
	buf.WriteByte('[')
	for i := 0; i < numObjects; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		fmt.Fprintf(&buf, "\"id\":\"obj_%d\",", i)
		fmt.Fprintf(&buf, "\"name\":\"n%d\",", i)
		if badEvery > 0 && i%badEvery == 0 {
			buf.WriteString("\"age\":\"unknown\",")
		} else {
			fmt.Fprintf(&buf, "\"age\":%d,", i)
		}
		if i%2 == 0 {
			buf.WriteString("\"active\":true,")
		} else {
			buf.WriteString("\"active\":false,")
		}
		fmt.Fprintf(&buf, "\"meta\":{\"score\":%d}", i)
		for k := 0; k < extraFields; k++ {
			buf.WriteString(",\"k")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\":\"v")
			buf.WriteString(strconv.Itoa(i))
			buf.WriteString("_")
			buf.WriteString(strconv.Itoa(k))
			buf.WriteString("\"")
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// ---- Micro benchmarks (small inputs) ----

func benchmarkSmall(b *testing.B, d lossy.JSONDriver) {
	ctx := context.Background()
	data := smallUserJSON()
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v smallUser
		if err := lossy.Decode(ctx, d.NewBytes(data), &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Decode_Small_GoJSON(b *testing.B)  { benchmarkSmall(b, lossy.GoJSONDriver()) }
func Benchmark_Decode_Small_StdJSON(b *testing.B) { benchmarkSmall(b, lossy.StdJSONDriver()) }

// ---- Macro benchmarks (huge JSON) ----

// 10k objects with 8 extra fields each
const (
	hugeObjects   = 10000
	hugeExtraKeys = 8
)

func benchmarkHuge(b *testing.B, d lossy.JSONDriver, badEvery int) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys, badEvery)
	ctx := lossy.WithReporter(context.Background(), lossy.NopReporter{})
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v lossy.Slice[hugeItem]
		if err := lossy.Decode(ctx, d.NewBytes(data), &v); err != nil {
			b.Fatal(err)
		}
	}
}

func Benchmark_Decode_HugeArray_GoJSON(b *testing.B)  { benchmarkHuge(b, lossy.GoJSONDriver(), 0) }
func Benchmark_Decode_HugeArray_StdJSON(b *testing.B) { benchmarkHuge(b, lossy.StdJSONDriver(), 0) }

// One malformed field in ten: measures loss reporting including raw capture.
func Benchmark_Decode_HugeArray_WithLosses(b *testing.B) {
	benchmarkHuge(b, lossy.GoJSONDriver(), 10)
}

func Benchmark_Raw_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(1000, hugeExtraKeys, 0)
	c, err := lossy.Open(context.Background(), lossy.JSONBytes(data))
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := c.Raw(); !ok {
			b.Fatal("no raw value")
		}
	}
}

// ---- Baseline: encoding/json ----

func Benchmark_encodingJSON_Unmarshal_HugeArray(b *testing.B) {
	data := generateHugeJSONArray(hugeObjects, hugeExtraKeys, 0)
	b.ReportAllocs()
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var v []map[string]any
		if err := json.Unmarshal(data, &v); err != nil {
			b.Fatal(err)
		}
	}
}
