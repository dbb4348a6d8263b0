package service

import (
	"strings"
	"testing"
)

func TestCodeGenerator_Generate(t *testing.T) {
	gen := NewCodeGenerator(nil)

	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		code, err := gen.Generate()
		if err != nil {
			t.Fatalf("Generate returned error: %v", err)
		}
		if len(code) != GeneratedCodeLength {
			t.Fatalf("expected length %d, got %q", GeneratedCodeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
		seen[code] = struct{}{}
	}
	if len(seen) < 2 {
		t.Fatal("expected generated codes to vary")
	}
}

func TestCodeGenerator_ValidateCustom(t *testing.T) {
	gen := NewCodeGenerator(nil)

	cases := []struct {
		candidate string
		want      bool
	}{
		{"abc", true},
		{"my-link_1", true},
		{"MyLink", true}, // lower-cased before checking
		{"a2345678901234567890", true},
		{"ab", false},
		{"a23456789012345678901", false},
		{"has space", false},
		{"dotted.name", false},
		{"türkçe", false},
		{"", false},
		{"admin", false},
		{"Admin", false},
	}
	for _, tc := range cases {
		if got := gen.ValidateCustom(tc.candidate); got != tc.want {
			t.Errorf("ValidateCustom(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestCodeGenerator_IsReserved(t *testing.T) {
	gen := NewCodeGenerator(nil)

	for _, word := range []string{"admin", "ADMIN", "Api", "dashboard"} {
		if !gen.IsReserved(word) {
			t.Errorf("expected %q to be reserved", word)
		}
	}
	if gen.IsReserved("my-link") {
		t.Error("expected my-link not to be reserved")
	}
}

func TestCodeGenerator_CustomReservedList(t *testing.T) {
	gen := NewCodeGenerator([]string{"Only"})

	if !gen.IsReserved("only") {
		t.Error("expected custom reserved word to apply")
	}
	if gen.IsReserved("admin") {
		t.Error("default reserved words should not apply with a custom list")
	}
}
