// Copyright (C) 2025 Michael J. Fromberger. All Rights Reserved.

package ronjson_test

import (
	"math"
	"testing"

	"github.com/creachadair/ron/ronjson"
	"github.com/creachadair/ron/value"
	"github.com/google/go-cmp/cmp"
)

func TestToJSON(t *testing.T) {
	tests := []struct {
		input value.Value
		want  string
	}{
		{value.Bool(true), "true"},
		{value.Int(-15), "-15"},
		{value.Uint(1<<64 - 1), "18446744073709551615"},
		{value.Float(2.5), "2.5"},
		{value.Char('q'), `"q"`},
		{value.String("a\nb"), `"a\nb"`},
		{value.Bytes("abc"), `"YWJj"`},
		{value.Option{}, "null"},
		{value.Some(value.Int(5)), "5"},
		{value.Some(value.Option{}), "null"},
		{value.Unit{}, "null"},
		{value.Unit{Name: "Flag"}, `"Flag"`},
		{value.List{value.Int(1), value.String("x")}, `[1,"x"]`},
		{value.List(nil), "[]"},
		{value.Map{
			{Key: value.String("a"), Value: value.Int(1)},
			{Key: value.Int(2), Value: value.Bool(false)},
			{Key: value.Char('c'), Value: value.Option{}},
		}, `{"a":1,"2":false,"c":null}`},
		{value.Tuple{Items: []value.Value{value.Int(1), value.Int(2)}}, "[1,2]"},
		{value.Tuple{
			Name:  "Pair",
			Items: []value.Value{value.Int(1), value.Int(2)},
		}, `{"Pair":[1,2]}`},
		{value.Struct{Fields: []value.Field{
			{Name: "x", Value: value.Float(1)},
			{Name: "y", Value: value.Float(2)},
		}}, `{"x":1,"y":2}`},
		{value.Struct{
			Name:   "Point",
			Fields: []value.Field{{Name: "x", Value: value.Int(3)}},
		}, `{"Point":{"x":3}}`},
	}
	for _, test := range tests {
		got, err := ronjson.ToJSON(test.input)
		if err != nil {
			t.Errorf("ToJSON %v: unexpected error: %v", test.input, err)
		} else if string(got) != test.want {
			t.Errorf("ToJSON %v: got %#q, want %#q", test.input, got, test.want)
		}
	}
}

func TestToJSONErrors(t *testing.T) {
	tests := []value.Value{
		value.Float(math.Inf(1)),
		value.Float(math.NaN()),
		value.List{value.Float(math.Inf(-1))},
		value.Map{{Key: value.List{value.Int(1)}, Value: value.Int(2)}},
		value.Map{{Key: value.Unit{}, Value: value.Int(2)}},
	}
	for _, input := range tests {
		if got, err := ronjson.ToJSON(input); err == nil {
			t.Errorf("ToJSON %v: got %#q, want an error", input, got)
		}
	}
}

func TestFromJSON(t *testing.T) {
	tests := []struct {
		input string
		want  value.Value
	}{
		{"true", value.Bool(true)},
		{"-15", value.Int(-15)},
		{"18446744073709551615", value.Uint(1<<64 - 1)},
		{"2.5", value.Float(2.5)},
		{`"abc"`, value.String("abc")},
		{"null", value.Option{}},
		{"[]", value.List(nil)},
		{`[1, "x", null]`, value.List{value.Int(1), value.String("x"), value.Option{}}},
		{"{}", value.Map(nil)},
		{`{"b": 2, "a": 1}`, value.Map{
			{Key: value.String("b"), Value: value.Int(2)},
			{Key: value.String("a"), Value: value.Int(1)},
		}},
		{`{"out": {"in": [true]}}`, value.Map{
			{Key: value.String("out"), Value: value.Map{
				{Key: value.String("in"), Value: value.List{value.Bool(true)}},
			}},
		}},

		// Human JSON is standardized before parsing.
		{`{"a": 1, /* note */ "b": 2,}`, value.Map{
			{Key: value.String("a"), Value: value.Int(1)},
			{Key: value.String("b"), Value: value.Int(2)},
		}},
		{"[1, 2,] // done", value.List{value.Int(1), value.Int(2)}},
	}
	for _, test := range tests {
		got, err := ronjson.FromJSON([]byte(test.input))
		if err != nil {
			t.Errorf("FromJSON %#q: unexpected error: %v", test.input, err)
			continue
		}
		if diff := cmp.Diff(test.want, got); diff != "" {
			t.Errorf("FromJSON %#q: (-want, +got)\n%s", test.input, diff)
		}
	}
}

func TestFromJSONErrors(t *testing.T) {
	tests := []string{
		"",
		"[1, 2",
		"1 2",
		`{"a"}`,
	}
	for _, input := range tests {
		if got, err := ronjson.FromJSON([]byte(input)); err == nil {
			t.Errorf("FromJSON %#q: got %v, want an error", input, got)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	inputs := []value.Value{
		value.Map{
			{Key: value.String("name"), Value: value.String("hero")},
			{Key: value.String("hp"), Value: value.Int(100)},
			{Key: value.String("pos"), Value: value.List{value.Float(1.5), value.Float(2.5)}},
			{Key: value.String("pet"), Value: value.Option{}},
		},
		value.List{value.Bool(true), value.String("x"), value.Int(0)},
	}
	for _, input := range inputs {
		data, err := ronjson.ToJSON(input)
		if err != nil {
			t.Errorf("ToJSON %v: unexpected error: %v", input, err)
			continue
		}
		back, err := ronjson.FromJSON(data)
		if err != nil {
			t.Errorf("FromJSON %#q: unexpected error: %v", data, err)
			continue
		}
		if !value.Equal(input, back) {
			t.Errorf("Round trip %v via %#q: got %v", input, data, back)
		}
	}
}
