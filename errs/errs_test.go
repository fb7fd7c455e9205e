// Copyright 2016 Patrick Brosi
// Authors: info@patrickbrosi.de
//
// Use of this source code is governed by a GPL v2
// license that can be found in the LICENSE file

package errs

import "testing"

func TestErrorMessageIncludesKind(t *testing.T) {
	err := New(InvalidInput, "site index out of range")
	want := "invalid input: site index out of range"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	cases := []struct {
		k    Kind
		want string
	}{
		{InvalidInput, "invalid input"},
		{InvariantViolation, "invariant violation"},
		{Kind(99), "unknown error"},
	}
	for _, c := range cases {
		if got := c.k.String(); got != c.want {
			t.Errorf("Kind(%d).String() = %q, want %q", c.k, got, c.want)
		}
	}
}
