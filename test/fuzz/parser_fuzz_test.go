package fuzz

import (
	"testing"

	"github.com/codewithboateng/purslint/internal/parser"
)

// Fuzz the parser with arbitrary content to ensure we never panic.
// A module-header scaffold carries most inputs past the header check so the
// import, binding, and case scanners all get exercised.
func FuzzParseNoPanic(f *testing.F) {
	seeds := [][]byte{
		[]byte("module Fuzz where\nx = one\n"),
		[]byte("module A.B (a, B(..), class C) where\nimport Prelude\n"),
		[]byte("f y = case y of\n  true -> one\n  false -> other\n"),
		[]byte("s = \"unterminated\nq = 'a'\nr = '\\''\n"),
		[]byte("{- block comment never closed\n"),
		[]byte("user =\n  { name: one\n  , age: two\n  }\n"),
		[]byte("garbage-but-should-not-panic\n"),
		[]byte("\t \t \xff\xfe\n"),
	}
	for _, s := range seeds {
		f.Add(s)
	}
	f.Fuzz(func(t *testing.T, data []byte) {
		content := append([]byte("module Fuzz.Target where\n"), data...)
		_, _ = parser.ParseSource("fuzz/Target.purs", string(content)) // we only assert "no panic"
	})
}
