package textinput

import (
	"fmt"
	"io"
	"strings"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/tables"
	"golang.org/x/net/html"
)

// SegmentHTML parses HTML markup into structured units: h1-h6 become
// headings, li items become bullets, table elements become structured
// table groups, and remaining block text becomes paragraphs.
func (s *Segmenter) SegmentHTML(r io.Reader) ([]model.StructuredUnit, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing html: %w", err)
	}

	walker := &htmlWalker{structurer: tables.NewStructurer()}
	walker.walk(root)
	walker.flushParagraph()

	s.annotate(walker.units)
	return walker.units, nil
}

// htmlWalker accumulates units while traversing the DOM.
type htmlWalker struct {
	units      []model.StructuredUnit
	paragraph  []string
	line       int
	structurer *tables.Structurer
}

func (w *htmlWalker) walk(node *html.Node) {
	if node.Type == html.ElementNode {
		switch node.Data {
		case "script", "style", "head":
			return
		case "h1", "h2", "h3", "h4", "h5", "h6":
			w.flushParagraph()
			w.addUnit(model.UnitHeading, nodeText(node))
			return
		case "li":
			w.flushParagraph()
			w.addUnit(model.UnitBullet, nodeText(node))
			return
		case "table":
			w.flushParagraph()
			w.addTable(node)
			return
		case "p", "div", "section", "article", "br", "tr":
			w.flushParagraph()
		}
	}

	if node.Type == html.TextNode {
		if text := strings.TrimSpace(node.Data); text != "" {
			w.paragraph = append(w.paragraph, text)
		}
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		w.walk(child)
	}

	if node.Type == html.ElementNode {
		switch node.Data {
		case "p", "div", "section", "article":
			w.flushParagraph()
		}
	}
}

// flushParagraph emits accumulated loose text as one paragraph unit.
func (w *htmlWalker) flushParagraph() {
	if len(w.paragraph) == 0 {
		return
	}
	text := strings.Join(w.paragraph, " ")
	w.paragraph = nil
	w.addUnit(model.UnitParagraph, text)
}

func (w *htmlWalker) addUnit(unitType model.UnitType, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	w.units = append(w.units, model.StructuredUnit{
		Type:        unitType,
		Text:        text,
		StartLine:   w.line,
		EndLine:     w.line,
		ColumnIndex: -1,
	})
	w.line++
}

// addTable converts a table element into table-header and table-row units
// with a structured payload.
func (w *htmlWalker) addTable(node *html.Node) {
	var rows [][]string
	collectTableRows(node, &rows)
	if len(rows) == 0 {
		return
	}

	table := w.structurer.Structure(tables.Candidate{
		Rows:       rows,
		Confidence: 1.0,
		Source:     "html",
	})
	if table == nil {
		return
	}

	w.units = append(w.units, model.StructuredUnit{
		Type:        model.UnitTableHeader,
		Text:        strings.Join(table.Headers, "\t"),
		StartLine:   w.line,
		EndLine:     w.line,
		ColumnIndex: -1,
		Table:       table,
	})
	w.line++

	for _, row := range table.Rows {
		texts := make([]string, len(row))
		for i, cell := range row {
			texts[i] = cell.Text
		}
		w.units = append(w.units, model.StructuredUnit{
			Type:        model.UnitTableRow,
			Text:        strings.Join(texts, "\t"),
			StartLine:   w.line,
			EndLine:     w.line,
			ColumnIndex: -1,
		})
		w.line++
	}
}

// collectTableRows gathers cell texts from tr/th/td elements.
func collectTableRows(node *html.Node, rows *[][]string) {
	if node.Type == html.ElementNode && node.Data == "tr" {
		var cells []string
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			if child.Type == html.ElementNode && (child.Data == "td" || child.Data == "th") {
				cells = append(cells, strings.TrimSpace(nodeText(child)))
			}
		}
		if len(cells) > 0 {
			*rows = append(*rows, cells)
		}
		return
	}

	for child := node.FirstChild; child != nil; child = child.NextSibling {
		collectTableRows(child, rows)
	}
}

// nodeText returns the concatenated text content of a node.
func nodeText(node *html.Node) string {
	var sb strings.Builder
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if sb.Len() > 0 {
					sb.WriteString(" ")
				}
				sb.WriteString(text)
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(node)
	return sb.String()
}
