// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ron_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/creachadair/ron"
	"github.com/google/go-cmp/cmp"
)

type Player struct {
	Name     string   `ron:"name"`
	HP       int      `ron:"hp"`
	Items    []string `ron:"items,omitempty"`
	Secret   string   `ron:"-"`
	Untagged bool
}

type Canvas struct {
	S Shape `ron:"s"`
}

type Pair struct {
	_ struct{} `ron:",tuple"`
	X int
	Y int
}

type Marker struct{}

// Grade stores a letter grade as a character literal.
type Grade struct{ c rune }

func (g Grade) MarshalRON(e *ron.Encoder) error { return e.Rune(g.c) }

func (g *Grade) UnmarshalRON(d *ron.Decoder) error {
	c, err := d.Rune()
	if err != nil {
		return err
	}
	g.c = c
	return nil
}

func TestMarshal(t *testing.T) {
	tests := []struct {
		input any
		want  string
	}{
		{true, "true"},
		{int8(-5), "-5"},
		{uint16(300), "300"},
		{2.5, "2.5"},
		{float64(3), "3.0"},
		{"a\tb", `"a\tb"`},
		{[]byte("ab\x00"), `b"ab\0"`},
		{[]int{1, 2, 3}, "[1,2,3]"},
		{[2]string{"x", "y"}, `("x","y")`},
		{map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{map[int]bool{3: true, 1: false}, "{1:false,3:true}"},
		{(*int)(nil), "None"},
		{ptr(5), "Some(5)"},
		{ptr(ptr("x")), `Some(Some("x"))`},
		{Marker{}, "()"},
		{Pair{X: 1, Y: 2}, "(1,2)"},
		{NewType{Value: 7}, "(7)"},
		{Inner{A: 4, B: true}, "(a:4,b:true)"},
		{Grade{'A'}, "'A'"},
		{Player{Name: "hero", HP: 100, Secret: "hush"}, `(name:"hero",hp:100,Untagged:false)`},
		{Player{Name: "x", HP: 1, Items: []string{"axe"}, Untagged: true},
			`(name:"x",hp:1,items:["axe"],Untagged:true)`},
	}
	for _, test := range tests {
		got, err := ron.Marshal(test.input)
		if err != nil {
			t.Errorf("Marshal %+v: unexpected error: %v", test.input, err)
		} else if string(got) != test.want {
			t.Errorf("Marshal %+v: got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func ptr[T any](v T) *T { return &v }

func TestMarshalEnum(t *testing.T) {
	t.Run("Newtype", func(t *testing.T) {
		got, err := ron.Marshal(Canvas{S: A{Value: Inner{A: 4, B: true}}})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		const want = `(s:A((a:4,b:true)))`
		if string(got) != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})

	t.Run("Unit", func(t *testing.T) {
		got, err := ron.Marshal(Canvas{S: B{}})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		const want = `(s:B)`
		if string(got) != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})

	t.Run("Unwrapped", func(t *testing.T) {
		opts := ron.Options{DefaultExtensions: ron.UnwrapVariantNewtypes}
		got, err := opts.Marshal(Canvas{S: A{Value: Inner{A: 4, B: true}}})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		const want = "#![enable(unwrap_variant_newtypes)]\n(s:A(a:4,b:true))"
		if string(got) != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})

	t.Run("Nil", func(t *testing.T) {
		if got, err := ron.Marshal(Canvas{}); err == nil {
			t.Errorf("Marshal: got %#q, want an error", got)
		}
	})

	t.Run("Unregistered", func(t *testing.T) {
		if got, err := ron.Marshal(Canvas{S: rogueShape{}}); err == nil {
			t.Errorf("Marshal: got %#q, want an error", got)
		}
	})
}

type rogueShape struct{}

func (rogueShape) isShape() {}

func TestMarshalStructNames(t *testing.T) {
	t.Run("Config", func(t *testing.T) {
		cfg := &ron.PrettyConfig{
			StructNames:    true,
			CompactArrays:  true,
			CompactMaps:    true,
			CompactStructs: true,
		}
		got, err := ron.MarshalPretty(Inner{A: 1, B: false}, cfg)
		if err != nil {
			t.Fatalf("MarshalPretty: %v", err)
		}
		const want = `Inner(a:1,b:false)`
		if string(got) != want {
			t.Errorf("MarshalPretty: got %#q, want %#q", got, want)
		}
	})

	t.Run("Extension", func(t *testing.T) {
		opts := ron.Options{DefaultExtensions: ron.ExplicitStructNames}
		got, err := opts.Marshal(Inner{A: 1, B: true})
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		const want = "#![enable(explicit_struct_names)]\nInner(a:1,b:true)"
		if string(got) != want {
			t.Errorf("Marshal: got %#q, want %#q", got, want)
		}
	})
}

func TestMarshalPretty(t *testing.T) {
	input := Player{Name: "hero", HP: 100, Items: []string{"axe", "rope"}}
	got, err := ron.MarshalPretty(input, nil)
	if err != nil {
		t.Fatalf("MarshalPretty: %v", err)
	}
	want := strings.Join([]string{
		"(",
		`    name: "hero",`,
		"    hp: 100,",
		"    items: [",
		`        "axe",`,
		`        "rope",`,
		"    ],",
		"    Untagged: false,",
		")",
	}, "\n")
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("Output: (-want, +got)\n%s", diff)
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []any{
		true,
		int(-12),
		uint64(1 << 40),
		3.25,
		"tricky \"text\"\n",
		[]byte{0, 1, 255},
		[]int{5, 10, 15},
		[3]float64{0.5, 1, 1.5},
		map[string]int{"a": 1, "b": 2},
		ptr(uint32(99)),
		(*string)(nil),
		Pair{X: -3, Y: 4},
		NewType{Value: 7},
		Inner{A: 200, B: true},
		Player{Name: "hero", HP: 100, Items: []string{"axe"}, Untagged: true},
		Canvas{S: A{Value: Inner{A: 4, B: true}}},
		Canvas{S: B{}},
		Grade{'C'},
	}
	for _, opts := range []ron.Options{
		{},
		{Pretty: ron.DefaultPretty()},
		{DefaultExtensions: ron.UnwrapVariantNewtypes | ron.ImplicitSome},
	} {
		for _, input := range tests {
			data, err := opts.Marshal(input)
			if err != nil {
				t.Errorf("Marshal %+v: unexpected error: %v", input, err)
				continue
			}
			target := reflectNew(input)
			if err := opts.Unmarshal(data, target); err != nil {
				t.Errorf("Unmarshal %#q: unexpected error: %v", data, err)
				continue
			}
			got := reflect.ValueOf(target).Elem().Interface()
			if diff := cmp.Diff(input, got, cmp.AllowUnexported(Grade{})); diff != "" {
				t.Errorf("Round trip %#q: (-want, +got)\n%s", data, diff)
			}
		}
	}
}

// reflectNew returns a pointer to a new zero value of v's dynamic type.
func reflectNew(v any) any { return reflect.New(reflect.TypeOf(v)).Interface() }

func TestUnmarshalAny(t *testing.T) {
	tests := []struct {
		input string
		want  any
	}{
		{"true", true},
		{"15", int64(15)},
		{"18446744073709551615", uint64(1<<64 - 1)},
		{"2.5", 2.5},
		{`"abc"`, "abc"},
		{`'q'`, 'q'},
		{`b"\x01"`, []byte{1}},
		{"None", nil},
		{"()", nil},
		{"Flag", "Flag"},
		{"Some(5)", int64(5)},
		{"[1, 2]", []any{int64(1), int64(2)}},
		{"(1, 2)", []any{int64(1), int64(2)}},
		{`(a: 1, b: "x")`, map[string]any{"a": int64(1), "b": "x"}},
		{`{"k": true}`, map[any]any{"k": true}},
		{`{3: "x"}`, map[any]any{int64(3): "x"}},
	}
	for _, test := range tests {
		var got any
		if err := ron.Unmarshal([]byte(test.input), &got); err != nil {
			t.Errorf("Unmarshal %#q: unexpected error: %v", test.input, err)
		} else if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("Unmarshal %#q: (-want, +got)\n%s", test.input, diff)
		}
	}

	t.Run("BadKey", func(t *testing.T) {
		var got any
		if err := ron.Unmarshal([]byte(`{[1]: "x"}`), &got); err == nil {
			t.Errorf("Unmarshal: got %v, want an error for a non-comparable key", got)
		}
	})
}

func TestMarshalUnsupported(t *testing.T) {
	tests := []any{
		make(chan int),
		func() {},
		complex(1, 2),
	}
	for _, input := range tests {
		if got, err := ron.Marshal(input); err == nil {
			t.Errorf("Marshal %T: got %#q, want an error", input, got)
		}
	}
}
