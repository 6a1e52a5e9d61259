package scan

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestGroupByHeader(t *testing.T) {
	mit, apache := " MIT\n", " Apache\n"
	results := []Result{
		{Path: "A.java", Header: mit, Digest: HashHeader(mit)},
		{Path: "B.java", Header: apache, Digest: HashHeader(apache)},
		{Path: "C.java", Header: apache, Digest: HashHeader(apache)},
		{Path: "D.java"},
	}

	want := []Group{
		{Digest: HashHeader(apache), Header: apache, Paths: []string{"B.java", "C.java"}},
		{Digest: HashHeader(mit), Header: mit, Paths: []string{"A.java"}},
	}
	if diff := cmp.Diff(want, GroupByHeader(results)); diff != "" {
		t.Errorf("GroupByHeader() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"D.java"}, Missing(results)); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
}

func TestGroupByHeader_Empty(t *testing.T) {
	if groups := GroupByHeader(nil); len(groups) != 0 {
		t.Errorf("GroupByHeader(nil) = %v, want empty", groups)
	}
}

func TestMissingAndFailed(t *testing.T) {
	results := []Result{
		{Path: "A.java", Header: " a\n", Digest: HashHeader(" a\n")},
		{Path: "B.java"},
		{Path: "C.java", Error: "byte 3: stream did not contain valid UTF-8"},
	}

	if diff := cmp.Diff([]string{"B.java"}, Missing(results)); diff != "" {
		t.Errorf("Missing() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(results[2:], Failed(results)); diff != "" {
		t.Errorf("Failed() mismatch (-want +got):\n%s", diff)
	}
}
