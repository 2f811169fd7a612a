package rules_test

import "testing"

func TestImportItemOrder_AlphaBreachFlagsOnePair(t *testing.T) {
	vs := byRule(lint(t, "module M where\n\nimport Data.Foo (b, a, c)\n"), "IMPORT-ITEM-ORDER")

	if len(vs) != 1 {
		t.Fatalf("an out-of-order list flags exactly one pair; got %d: %+v", len(vs), vs)
	}
	v := vs[0]
	if v.Line != 3 || v.Evidence != "b, a" {
		t.Fatalf("got line %d evidence %q; want 3 %q", v.Line, v.Evidence, "b, a")
	}
	if v.Message != `import list not alphabetical: "a" should come before "b"` {
		t.Fatalf("message = %q", v.Message)
	}

	if vs := byRule(lint(t, "module M where\n\nimport Data.Foo (a, b, c)\n"), "IMPORT-ITEM-ORDER"); len(vs) != 0 {
		t.Fatalf("a sorted list must pass; got %+v", vs)
	}
}

func TestImportItemOrder_CategoryBeforeAlpha(t *testing.T) {
	vs := byRule(lint(t, "module M where\n\nimport Data.Foo (foo, Bar)\n"), "IMPORT-ITEM-ORDER")

	if len(vs) != 1 {
		t.Fatalf("expected 1 violation; got %d: %+v", len(vs), vs)
	}
	want := `import list category order: type "Bar" listed after function "foo" (expected kinds, classes, types, operators, then functions)`
	if vs[0].Message != want {
		t.Fatalf("message = %q", vs[0].Message)
	}
	if vs[0].Evidence != "foo, Bar" {
		t.Fatalf("evidence = %q", vs[0].Evidence)
	}
}

func TestImportItemOrder_OnePerSegment(t *testing.T) {
	vs := byRule(lint(t, "module M where\n\nimport Data.Foo (Tb, Ta, zb, za)\n"), "IMPORT-ITEM-ORDER")

	if len(vs) != 2 {
		t.Fatalf("each same-kind segment flags once; got %d: %+v", len(vs), vs)
	}
	if vs[0].Evidence != "Tb, Ta" || vs[1].Evidence != "zb, za" {
		t.Fatalf("evidences = %q, %q", vs[0].Evidence, vs[1].Evidence)
	}
}

func TestImportCtorPartial(t *testing.T) {
	src := "module M where\n\n" +
		"import Data.Either (Either(..))\n" +
		"import Data.Maybe (Maybe(Just, Nothing))\n" +
		"import Data.Op hiding (Op(Op))\n" +
		"import Data.Tuple (Tuple)\n"
	vs := byRule(lint(t, src), "IMPORT-CTOR-PARTIAL")

	if len(vs) != 1 {
		t.Fatalf("only the partial subset fires; got %d: %+v", len(vs), vs)
	}
	v := vs[0]
	if v.Line != 4 || v.Evidence != "Maybe(Just, Nothing)" {
		t.Fatalf("got line %d evidence %q", v.Line, v.Evidence)
	}
	if v.Message != `type "Maybe" imports an explicit constructor subset; import Maybe(..) or just Maybe` {
		t.Fatalf("message = %q", v.Message)
	}
}

func TestImportGroupLayout(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "missing blank between groups",
			src:  "module App.Main where\n\nimport Prelude\nimport Data.List\n",
			want: []string{"missing blank line between prelude and third-party import groups"},
		},
		{
			name: "blank inside a group",
			src:  "module App.Main where\n\nimport Data.Either\n\nimport Data.List\n",
			want: []string{"blank line inside the third-party import group"},
		},
		{
			name: "two blanks between groups",
			src:  "module App.Main where\n\nimport Prelude\n\n\nimport Data.List\n",
			want: []string{"2 blank lines between prelude and third-party import groups; expected one"},
		},
		{
			name: "local before third-party",
			src:  "module App.Main where\n\nimport App.Types\n\nimport Data.List\n",
			want: []string{`third-party import "Data.List" after local imports; expected prelude, third-party, then local`},
		},
		{
			name: "unsorted within a group",
			src:  "module App.Main where\n\nimport Data.Map\nimport Data.List\n",
			want: []string{`imports not sorted: "Data.List" should come before "Data.Map"`},
		},
		{
			name: "unqualified after qualified",
			src:  "module App.Main where\n\nimport Data.Map as Map\nimport Data.List\n",
			want: []string{`unqualified import "Data.List" after qualified imports; qualified imports go last in their group`},
		},
		{
			name: "qualified sub-list unsorted",
			src:  "module App.Main where\n\nimport Data.Set as Set\nimport Data.Map as Map\n",
			want: []string{`qualified imports not sorted: "Data.Map" should come before "Data.Set"`},
		},
		{
			name: "clean three-group layout",
			src: "module App.Main where\n\n" +
				"import Prelude\n\n" +
				"import Data.List\n" +
				"import Data.Maybe (fromMaybe)\n" +
				"import Data.Map as Map\n\n" +
				"import App.Types\n",
			want: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			vs := byRule(lint(t, tc.src), "IMPORT-GROUP-LAYOUT")
			if len(vs) != len(tc.want) {
				t.Fatalf("expected %d violations; got %d: %+v", len(tc.want), len(vs), vs)
			}
			for i, msg := range tc.want {
				if vs[i].Message != msg {
					t.Errorf("violation %d message = %q, want %q", i, vs[i].Message, msg)
				}
			}
		})
	}
}
