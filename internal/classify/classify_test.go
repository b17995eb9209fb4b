package classify

import (
	"errors"
	"testing"

	"github.com/qtracelabs/qtrace/internal/lang"
)

func mustClassifier(t *testing.T, extra ...StaticRule) *Classifier {
	t.Helper()
	c, err := New(extra...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func hasTag(tags []Tag, want Tag) bool {
	for _, t := range tags {
		if t == want {
			return true
		}
	}
	return false
}

func TestClassifyExpressions_XORBackdoor(t *testing.T) {
	c := mustClassifier(t)
	tags, err := c.ClassifyExpressions([]string{`(a ^ b) == 42`}, "python")
	if err != nil {
		t.Fatal(err)
	}
	if !hasTag(tags, TagXOR) {
		t.Errorf("missing XOR in %v", tags)
	}
	if !hasTag(tags, TagMagicConstant) {
		t.Errorf("missing MAGIC_CONSTANT in %v", tags)
	}
	if hasTag(tags, TagUnknown) {
		t.Errorf("UNKNOWN must not accompany real tags: %v", tags)
	}
}

func TestClassifyExpressions_ThreeWayXOR(t *testing.T) {
	c := mustClassifier(t)
	tags, err := c.ClassifyExpressions([]string{`(a ^ b ^ c) == 0x5A`}, "python")
	if err != nil {
		t.Fatal(err)
	}
	if !hasTag(tags, TagThreeXOR) {
		t.Errorf("missing THREE_XOR in %v", tags)
	}
}

func TestClassifyExpressions_DangerousCalls(t *testing.T) {
	c := mustClassifier(t)
	cases := []struct {
		unit     string
		language string
	}{
		{`os.system("rm -rf /tmp/x")`, "python"},
		{`system("ls -la");`, "c"},
		{`Runtime.getRuntime().exec(cmd)`, "java"},
		{`eval(payload)`, "javascript"},
		{`exec.Command("/bin/sh", "-c", cmd)`, "go"},
		{`Command::new("nc").arg("-e")`, "rust"},
		{`selfdestruct(payable(owner))`, "solidity"},
	}
	for _, tc := range cases {
		tags, err := c.ClassifyExpressions([]string{tc.unit}, tc.language)
		if err != nil {
			t.Errorf("%s: %v", tc.language, err)
			continue
		}
		if !hasTag(tags, TagDangerousFunction) {
			t.Errorf("%s %q: missing DANGEROUS_FUNCTION in %v", tc.language, tc.unit, tags)
		}
	}
}

func TestClassifyExpressions_LanguageScoping(t *testing.T) {
	c := mustClassifier(t)
	// pickle is a python deserialization sink, not a java one
	tags, err := c.ClassifyExpressions([]string{`pickle.loads(data)`}, "java")
	if err != nil {
		t.Fatal(err)
	}
	if hasTag(tags, TagUnsafeDeserialization) {
		t.Errorf("python-only rule matched under java: %v", tags)
	}
}

func TestClassifyExpressions_TimeBomb(t *testing.T) {
	c := mustClassifier(t)
	tags, err := c.ClassifyExpressions([]string{`datetime.now().year >= 2027`}, "python")
	if err != nil {
		t.Fatal(err)
	}
	if !hasTag(tags, TagTimeBomb) {
		t.Errorf("missing TIME_BOMB in %v", tags)
	}
}

func TestClassifyExpressions_HardcodedCredential(t *testing.T) {
	c := mustClassifier(t)
	tags, err := c.ClassifyExpressions([]string{`password == "hunter2secret"`}, "python")
	if err != nil {
		t.Fatal(err)
	}
	if !hasTag(tags, TagHardcodedCredential) {
		t.Errorf("missing HARDCODED_CREDENTIAL in %v", tags)
	}
}

func TestClassifyExpressions_NeverEmpty(t *testing.T) {
	c := mustClassifier(t)
	for _, units := range [][]string{nil, {}, {""}, {"x = 1"}} {
		tags, err := c.ClassifyExpressions(units, "python")
		if err != nil {
			t.Fatal(err)
		}
		if len(tags) != 1 || tags[0] != TagUnknown {
			t.Errorf("units %v: got %v, want [UNKNOWN]", units, tags)
		}
	}
}

func TestClassifyExpressions_UnsupportedLanguage(t *testing.T) {
	c := mustClassifier(t)
	_, err := c.ClassifyExpressions([]string{"if x:"}, "fortran")
	var ue *lang.UnsupportedError
	if !errors.As(err, &ue) {
		t.Fatalf("want *lang.UnsupportedError, got %v", err)
	}
}

func TestNew_RejectsBadExtraRule(t *testing.T) {
	_, err := New(StaticRule{ID: "broken", Tag: TagXOR, Regex: `(\`})
	if err == nil {
		t.Fatal("expected compile error for invalid regex")
	}
	_, err = New(StaticRule{ID: "mystery", Tag: Tag("NO_SUCH_TAG"), Keywords: []string{"x"}})
	if err == nil {
		t.Fatal("expected error for unknown tag")
	}
}
