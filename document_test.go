package slidecast

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocumentPlainTextFormFeeds(t *testing.T) {
	path := writeTempFile(t, "doc.txt", "first page\fsecond page\fthird")
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Pages) != 3 {
		t.Fatalf("got %d pages, want 3", len(doc.Pages))
	}
	if doc.Pages[1].Text != "second page" || doc.Pages[1].Index != 1 {
		t.Errorf("page 1 = %+v", doc.Pages[1])
	}
	if doc.Name != "doc.txt" {
		t.Errorf("name = %q", doc.Name)
	}
}

func TestLoadDocumentPlainTextSizeSplit(t *testing.T) {
	para := strings.Repeat("word ", 200) // ~1000 chars
	content := strings.Join([]string{para, para, para, para}, "\n\n")
	path := writeTempFile(t, "big.txt", content)

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	if len(doc.Pages) < 2 {
		t.Errorf("long document should split into pages, got %d", len(doc.Pages))
	}
	for i, p := range doc.Pages {
		if len(p.Text) > textPageSize+1000 {
			t.Errorf("page %d is %d chars, far over the page size", i, len(p.Text))
		}
	}
}

func TestLoadDocumentMarkdownHeadings(t *testing.T) {
	md := `intro paragraph

# First Section

body of the first section

## Subsection

more text

# Second Section

closing body
`
	path := writeTempFile(t, "doc.md", md)
	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatalf("LoadDocument: %v", err)
	}
	// Pages: preamble, First Section, Subsection, Second Section.
	if len(doc.Pages) != 4 {
		t.Fatalf("got %d pages: %+v", len(doc.Pages), doc.Pages)
	}
	if !strings.Contains(doc.Pages[0].Text, "intro paragraph") {
		t.Errorf("page 0 = %q", doc.Pages[0].Text)
	}
	if !strings.Contains(doc.Pages[1].Text, "First Section") {
		t.Errorf("page 1 = %q", doc.Pages[1].Text)
	}
	if !strings.Contains(doc.Pages[3].Text, "closing body") {
		t.Errorf("page 3 = %q", doc.Pages[3].Text)
	}
}

func TestLoadDocumentMissingFile(t *testing.T) {
	_, err := LoadDocument(filepath.Join(t.TempDir(), "absent.txt"))
	if err == nil {
		t.Fatal("expected an error")
	}
	if !IsKind(err, KindIO) {
		t.Errorf("error kind: %v", err)
	}
}

func TestSplitBySizeKeepsParagraphs(t *testing.T) {
	chunks := splitBySize("aaa\n\nbbb\n\nccc", 8)
	if len(chunks) < 2 {
		t.Fatalf("got %d chunks", len(chunks))
	}
	for _, c := range chunks {
		if strings.HasPrefix(c, "\n") || strings.HasSuffix(c, "\n") {
			t.Errorf("chunk has ragged edges: %q", c)
		}
	}
}
