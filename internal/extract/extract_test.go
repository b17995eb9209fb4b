package extract

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/qtracelabs/qtrace/internal/lang"
)

func TestExtract_EmptySource(t *testing.T) {
	e := New(nil, Config{})
	for _, src := range []string{"", "   \n\t\n"} {
		blocks, err := e.Extract(context.Background(), src, "python")
		if err != nil {
			t.Errorf("empty source: unexpected error %v", err)
		}
		if blocks != nil {
			t.Errorf("empty source: got %v, want nil", blocks)
		}
	}
}

func TestExtract_UnsupportedLanguage(t *testing.T) {
	e := New(nil, Config{})
	_, err := e.Extract(context.Background(), "if x: y()", "cobol")
	var ue *lang.UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("want *lang.UnsupportedError, got %v", err)
	}
	if ue.Language != "cobol" {
		t.Errorf("Language = %q, want cobol", ue.Language)
	}
}

func TestExtract_LanguageAliases(t *testing.T) {
	e := New(nil, Config{})
	source := "if (x == 1) { act(); }"
	for _, alias := range []string{"js", "JavaScript", "node"} {
		blocks, err := e.Extract(context.Background(), source, alias)
		if err != nil {
			t.Errorf("%s: %v", alias, err)
			continue
		}
		if len(blocks) != 1 {
			t.Errorf("%s: got %d blocks, want 1", alias, len(blocks))
		}
	}
}

func TestExtract_PythonConditional(t *testing.T) {
	source := `
import os

if user == "admin":
    os.system("rm -rf /")
`
	blocks, err := New(nil, Config{}).Extract(context.Background(), source, "python")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %v", len(blocks), blocks)
	}
	if blocks[0].Condition != `user == "admin"` {
		t.Errorf("condition = %q", blocks[0].Condition)
	}
	if !blocks[0].HasCall("os.system") {
		t.Errorf("calls = %v, want os.system", blocks[0].Calls)
	}
}

func TestExtract_SolidityUsesFallback(t *testing.T) {
	source := `
contract Drain {
    function take() public {
        if (block.timestamp > 1924992000) {
            selfdestruct(payable(msg.sender));
        }
    }
}
`
	blocks, err := New(nil, Config{}).Extract(context.Background(), source, "solidity")
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %v", len(blocks), blocks)
	}
	if blocks[0].Condition != "block.timestamp > 1924992000" {
		t.Errorf("condition = %q", blocks[0].Condition)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	source := `
def bomb():
    if random.random() < 0.1:
        os.system("shutdown")
`
	e := New(nil, Config{DeepInline: true, ExpandConditions: true})
	first, err := e.Extract(context.Background(), source, "python")
	if err != nil {
		t.Fatal(err)
	}
	second, err := e.Extract(context.Background(), source, "python")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction not deterministic:\n%v\n%v", first, second)
	}
}

func TestExpressions(t *testing.T) {
	source := `
if a > 1:
    x()
if a > 1:
    y()
while b:
    z()
`
	exprs, err := New(nil, Config{}).Expressions(context.Background(), source, "python")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"a > 1", "a > 1", "b"}
	if !reflect.DeepEqual(exprs, want) {
		t.Errorf("Expressions = %v, want %v", exprs, want)
	}
}

func TestTrimOuterParens(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"(x == 1)", "x == 1"},
		{"x == 1", "x == 1"},
		{"(a) && (b)", "(a) && (b)"},
		{"((a ^ b) == 42)", "(a ^ b) == 42"},
	}
	for _, tc := range cases {
		if got := trimOuterParens(tc.in); got != tc.want {
			t.Errorf("trimOuterParens(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
