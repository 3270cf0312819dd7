package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"telegram-homework-agent/internal/domain/ports/adapter"
)

var _ adapter.DocumentRenderer = (*Renderer)(nil)

// Renderer converts generated markdown into a PDF worksheet. Layout mirrors
// the worksheet structure the generators emit: H1 title centered, H2 section
// headers, numbered questions, plain paragraphs.
type Renderer struct {
	md goldmark.Markdown
}

func NewRenderer() *Renderer {
	return &Renderer{md: goldmark.New()}
}

func (r *Renderer) Render(ctx context.Context, markdown, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(markdown) == "" {
		return fmt.Errorf("render: empty markdown input")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("render: create output dir: %w", err)
	}

	src := []byte(markdown)
	doc := r.md.Parser().Parse(text.NewReader(src))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 12)

	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		r.renderBlock(pdf, node, src)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("render: write pdf: %w", err)
	}
	return nil
}

func (r *Renderer) renderBlock(pdf *fpdf.Fpdf, node ast.Node, src []byte) {
	switch n := node.(type) {
	case *ast.Heading:
		switch n.Level {
		case 1:
			pdf.SetFont("Helvetica", "B", 18)
			pdf.MultiCell(0, 10, plainText(n, src), "", "C", false)
			pdf.Ln(2)
		default:
			pdf.SetFont("Helvetica", "B", 14)
			pdf.MultiCell(0, 8, plainText(n, src), "", "L", false)
			pdf.Ln(1)
		}
		pdf.SetFont("Helvetica", "", 12)

	case *ast.List:
		num := n.Start
		if num == 0 {
			num = 1
		}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			line := plainText(item, src)
			if n.IsOrdered() {
				line = fmt.Sprintf("%d. %s", num, line)
				num++
			} else {
				line = "- " + line
			}
			pdf.MultiCell(0, 7, line, "", "L", false)
		}
		pdf.Ln(3)

	case *ast.Paragraph:
		pdf.MultiCell(0, 7, plainText(n, src), "", "L", false)
		pdf.Ln(3)

	default:
		if txt := plainText(node, src); txt != "" {
			pdf.MultiCell(0, 7, txt, "", "L", false)
		}
	}
}

// plainText flattens a node's inline content, joining hard breaks with
// newlines so multi-line paragraphs keep their shape.
func plainText(node ast.Node, src []byte) string {
	var sb strings.Builder
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			sb.Write(t.Segment.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				sb.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(sb.String())
}
