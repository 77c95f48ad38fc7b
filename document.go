package slidecast

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/gen2brain/go-fitz"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Page is one ordered page of extracted plain text.
type Page struct {
	Index int
	Text  string
}

// Document is the extraction result handed to the synthesis pipeline.
type Document struct {
	Name  string
	Pages []Page
}

// textPageSize is the character budget used when a flat text file is
// split into synthetic pages.
const textPageSize = 3000

// LoadDocument extracts ordered pages of plain text from a file.
// PDF pages map one-to-one; Markdown is split at top-level headings;
// plain text is split into fixed-size synthetic pages.
func LoadDocument(path string) (*Document, error) {
	name := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return loadPDF(path, name)
	case ".md", ".markdown":
		return loadMarkdown(path, name)
	default:
		return loadPlainText(path, name)
	}
}

func loadPDF(path, name string) (*Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, IOError("open pdf", err)
	}
	defer doc.Close()

	pages := make([]Page, 0, doc.NumPage())
	for i := 0; i < doc.NumPage(); i++ {
		txt, err := doc.Text(i)
		if err != nil {
			log().Warn().Int("page", i).Err(err).Msg("pdf page text extraction failed")
			txt = ""
		}
		pages = append(pages, Page{Index: i, Text: strings.TrimSpace(txt)})
	}
	return &Document{Name: name, Pages: pages}, nil
}

func loadMarkdown(path, name string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, IOError("read markdown", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	// Each level-1/2 heading starts a new page; preamble text before the
	// first heading is its own page.
	var sections []string
	var cur bytes.Buffer
	flush := func() {
		if strings.TrimSpace(cur.String()) != "" {
			sections = append(sections, strings.TrimSpace(cur.String()))
		}
		cur.Reset()
	}
	for node := root.FirstChild(); node != nil; node = node.NextSibling() {
		if h, ok := node.(*ast.Heading); ok && h.Level <= 2 {
			flush()
		}
		writeNodeText(&cur, node, src)
		cur.WriteString("\n")
	}
	flush()

	if len(sections) == 0 {
		sections = []string{""}
	}
	pages := make([]Page, len(sections))
	for i, s := range sections {
		pages[i] = Page{Index: i, Text: s}
	}
	return &Document{Name: name, Pages: pages}, nil
}

// writeNodeText walks a goldmark AST node collecting its raw text.
func writeNodeText(buf *bytes.Buffer, node ast.Node, src []byte) {
	if t, ok := node.(*ast.Text); ok {
		buf.Write(t.Segment.Value(src))
		if t.SoftLineBreak() || t.HardLineBreak() {
			buf.WriteString("\n")
		}
		return
	}
	for c := node.FirstChild(); c != nil; c = c.NextSibling() {
		writeNodeText(buf, c, src)
	}
	switch node.(type) {
	case *ast.Paragraph, *ast.Heading, *ast.ListItem:
		buf.WriteString("\n")
	}
}

func loadPlainText(path, name string) (*Document, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, IOError("read document", err)
	}
	body := strings.ReplaceAll(string(src), "\r\n", "\n")

	// Form feeds mark explicit page breaks; otherwise split on size.
	var chunks []string
	if strings.Contains(body, "\f") {
		chunks = strings.Split(body, "\f")
	} else {
		chunks = splitBySize(body, textPageSize)
	}

	pages := make([]Page, len(chunks))
	for i, c := range chunks {
		pages[i] = Page{Index: i, Text: strings.TrimSpace(c)}
	}
	return &Document{Name: name, Pages: pages}, nil
}

// splitBySize breaks text into chunks of roughly limit characters,
// preferring paragraph boundaries.
func splitBySize(body string, limit int) []string {
	body = strings.TrimSpace(body)
	if len(body) <= limit {
		return []string{body}
	}
	var chunks []string
	var cur strings.Builder
	for _, para := range strings.Split(body, "\n\n") {
		if cur.Len() > 0 && cur.Len()+len(para) > limit {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteString("\n\n")
		}
		cur.WriteString(para)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}
