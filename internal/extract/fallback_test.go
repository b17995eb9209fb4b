package extract

import (
	"reflect"
	"testing"
)

func TestColonBlocks_SimpleIf(t *testing.T) {
	source := "if x > 10:\n    do_thing()\n    y = 1\n"
	blocks := colonBlocks(source)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Condition != "x > 10" {
		t.Errorf("condition = %q", b.Condition)
	}
	if len(b.Body) != 2 || b.Body[0] != "do_thing()" {
		t.Errorf("body = %v", b.Body)
	}
	if len(b.Calls) != 1 || b.Calls[0] != "do_thing" {
		t.Errorf("calls = %v", b.Calls)
	}
}

func TestColonBlocks_EmptyBodyDropped(t *testing.T) {
	source := "if x:\n    pass\n"
	if blocks := colonBlocks(source); len(blocks) != 0 {
		t.Errorf("pass-only body should be dropped, got %v", blocks)
	}
}

func TestColonBlocks_NestedProducesOverlappingBlocks(t *testing.T) {
	source := "if a:\n    if b:\n        inner()\n"
	blocks := colonBlocks(source)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 overlapping blocks, got %d: %v", len(blocks), blocks)
	}
	if blocks[0].Condition != "a" || blocks[1].Condition != "b" {
		t.Errorf("conditions = %q, %q", blocks[0].Condition, blocks[1].Condition)
	}
	// outer body contains the inner construct as a body line
	if blocks[0].Body[0] != "if b:" {
		t.Errorf("outer body = %v", blocks[0].Body)
	}
}

func TestColonBlocks_DuplicateConditionsPreserved(t *testing.T) {
	source := "if x == 1:\n    a()\nif x == 1:\n    b()\n"
	blocks := colonBlocks(source)
	if len(blocks) != 2 {
		t.Fatalf("duplicates must be preserved, got %d blocks", len(blocks))
	}
}

func TestBraceBlocks_CFamily(t *testing.T) {
	source := "if (rand() % 10 < 2) {\n    system(\"shutdown -h now\");\n    grant_root();\n}\n"
	blocks := braceBlocks(source)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	b := blocks[0]
	if b.Condition != "rand() % 10 < 2" {
		t.Errorf("condition = %q", b.Condition)
	}
	if len(b.Body) != 2 {
		t.Errorf("body = %v", b.Body)
	}
	if !b.HasCall("system") || !b.HasCall("grant_root") {
		t.Errorf("calls = %v", b.Calls)
	}
}

func TestBraceBlocks_BracelessBody(t *testing.T) {
	source := "if (x == 0xDEAD) launch();\n"
	blocks := braceBlocks(source)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	if blocks[0].Body[0] != "launch();" {
		t.Errorf("body = %v", blocks[0].Body)
	}
}

func TestBraceBlocks_BraceOnNextLine(t *testing.T) {
	source := "while (user < 100)\n{\n    dangerous();\n}\n"
	blocks := braceBlocks(source)
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %v", len(blocks), blocks)
	}
	if blocks[0].Condition != "user < 100" {
		t.Errorf("condition = %q", blocks[0].Condition)
	}
	if !blocks[0].HasCall("dangerous") {
		t.Errorf("calls = %v", blocks[0].Calls)
	}
}

func TestFallbackBlocks_Idempotent(t *testing.T) {
	source := "if a ^ b == 42:\n    backdoor()\nwhile t < 5:\n    tick()\n"
	first := colonBlocks(source)
	second := colonBlocks(source)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not idempotent:\n%v\n%v", first, second)
	}
}
