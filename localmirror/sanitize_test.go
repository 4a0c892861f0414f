package localmirror_test

import (
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/toothbrush/quip-mirror/localmirror"
)

func TestSanitizeName(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "Quarterly Report", "Quarterly Report"},
		{"unsafe characters become dashes", "A/B<C>D", "A-B-C-D"},
		{"full unsafe set", `a<b>c:d"e/f\g|h?i*j`, "a-b-c-d-e-f-g-h-i-j"},
		{"dash runs collapse", "a//b", "a-b"},
		{"leading and trailing junk trimmed", " - hello - ", "hello"},
		{"control characters dropped", "tab\there", "tabhere"},
		{"nothing left over", "///", "untitled"},
		{"empty input", "", "untitled"},
		{"unicode passes through", "日本語のタイトル", "日本語のタイトル"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gt.Equal(t, localmirror.SanitizeName(tc.in), tc.want)
		})
	}
}

func TestSanitizeNameIdempotent(t *testing.T) {
	inputs := []string{
		"A/B<C>D",
		" - hello - ",
		"///",
		"normal name",
		strings.Repeat("x", 300),
		strings.Repeat("y", 199) + "-z",
	}

	for _, in := range inputs {
		once := localmirror.SanitizeName(in)
		gt.Equal(t, localmirror.SanitizeName(once), once)
	}
}

func TestSanitizeNameTruncation(t *testing.T) {
	long := strings.Repeat("a", 300)
	got := localmirror.SanitizeName(long)
	gt.Equal(t, len([]rune(got)), 200)

	// truncation mustn't leave a trailing dash behind.
	trailing := strings.Repeat("b", 199) + "-tail"
	got = localmirror.SanitizeName(trailing)
	gt.True(t, !strings.HasSuffix(got, "-"))
	gt.Equal(t, got, strings.Repeat("b", 199))
}

func TestDocumentFilename(t *testing.T) {
	gt.Equal(t, localmirror.DocumentFilename("My Doc"), "My Doc.docx")
	gt.Equal(t, localmirror.DocumentFilename("report.docx"), "report.docx")
	gt.Equal(t, localmirror.DocumentFilename("A/B"), "A-B.docx")
	gt.Equal(t, localmirror.DocumentFilename(""), "untitled.docx")
}
