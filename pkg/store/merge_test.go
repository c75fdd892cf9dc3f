package store

import (
	"reflect"
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name  string
		dst   Record
		patch Record
		want  Record
	}{
		{
			name:  "siblings survive at every depth",
			dst:   Record{"a": Record{"b": 0, "c": 2}, "d": 3},
			patch: Record{"a": Record{"b": 1}},
			want:  Record{"a": Record{"b": 1, "c": 2}, "d": 3},
		},
		{
			name:  "leaf replaced",
			dst:   Record{"a": 1},
			patch: Record{"a": "x"},
			want:  Record{"a": "x"},
		},
		{
			name:  "record replaces leaf",
			dst:   Record{"a": 1},
			patch: Record{"a": Record{"b": 2}},
			want:  Record{"a": Record{"b": 2}},
		},
		{
			name:  "leaf replaces record",
			dst:   Record{"a": Record{"b": 2}},
			patch: Record{"a": 1},
			want:  Record{"a": 1},
		},
		{
			name:  "slices are replaced wholesale",
			dst:   Record{"list": []any{1, 2, 3}},
			patch: Record{"list": []any{4}},
			want:  Record{"list": []any{4}},
		},
		{
			name:  "new keys added",
			dst:   Record{"a": 1},
			patch: Record{"b": Record{"c": true}},
			want:  Record{"a": 1, "b": Record{"c": true}},
		},
		{
			name:  "empty patch",
			dst:   Record{"a": Record{"b": 1}},
			patch: Record{},
			want:  Record{"a": Record{"b": 1}},
		},
		{
			name:  "nil values assigned",
			dst:   Record{"a": 1},
			patch: Record{"a": nil},
			want:  Record{"a": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Merge(tt.dst, tt.patch)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Merge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMergeKeepsNestedIdentity(t *testing.T) {
	inner := Record{"b": 0, "c": 2}
	dst := Record{"a": inner}

	Merge(dst, Record{"a": Record{"b": 1}})

	if reflect.ValueOf(dst["a"]).Pointer() != reflect.ValueOf(inner).Pointer() {
		t.Error("merging must update nested records in place")
	}
}

func TestMergeDoesNotAliasSource(t *testing.T) {
	src := Record{"n": Record{"x": 1}, "list": []any{Record{"y": 1}}}
	dst := Record{}

	Merge(dst, src)
	src["n"].(Record)["x"] = 99
	src["list"].([]any)[0].(Record)["y"] = 99

	if dst["n"].(Record)["x"] != 1 {
		t.Error("dst aliases a record from src")
	}
	if dst["list"].([]any)[0].(Record)["y"] != 1 {
		t.Error("dst aliases a slice from src")
	}
}
