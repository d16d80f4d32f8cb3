// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron_test

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"github.com/creachadair/ron"
	"github.com/creachadair/ron/value"
)

// benchInput synthesizes a document of n records for throughput measurement.
func benchInput(n int) []byte {
	var buf bytes.Buffer
	buf.WriteString("(entities: [\n")
	for i := 0; i < n; i++ {
		fmt.Fprintf(&buf, "  (name: \"entity %d\", hp: %d, pos: (%d.5, %d.25), tags: [\"a\", \"b\"]),\n",
			i, i%100, i, i*2)
	}
	buf.WriteString("])")
	return buf.Bytes()
}

func BenchmarkScanner(b *testing.B) {
	input := benchInput(1000)
	b.Logf("Benchmark input: %d bytes", len(input))

	for i := 0; i < b.N; i++ {
		s := ron.NewScannerBytes(input)
		for {
			err := s.Next()
			if err == io.EOF {
				break
			} else if err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}

			// Convert token text to values, as a decoder would.
			switch s.Token() {
			case ron.String:
				s.Unescape()
			case ron.Integer:
				s.Int64()
			case ron.Float:
				s.Float64()
			}
		}
	}
}

func BenchmarkParse(b *testing.B) {
	input := benchInput(1000)
	b.Run("Value", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			if _, err := value.ParseBytes(input); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	type entity struct {
		Name string     `ron:"name"`
		HP   int        `ron:"hp"`
		Pos  [2]float64 `ron:"pos"`
		Tags []string   `ron:"tags"`
	}
	type scene struct {
		Entities []entity `ron:"entities"`
	}
	b.Run("Unmarshal", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			var s scene
			if err := ron.Unmarshal(input, &s); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})

	b.Run("Marshal", func(b *testing.B) {
		var s scene
		if err := ron.Unmarshal(input, &s); err != nil {
			b.Fatalf("Unexpected error: %v", err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := ron.Marshal(s); err != nil {
				b.Fatalf("Unexpected error: %v", err)
			}
		}
	})
}
