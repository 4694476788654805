package plotpage

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

const maxGridColumns = 4

// Card renders a bordered container.
type Card struct {
	Title    string
	Subtitle string
	Content  Renderable
}

// NewCard creates a new card.
func NewCard(title, subtitle string) *Card {
	return &Card{Title: title, Subtitle: subtitle}
}

// WithContent sets the card content.
func (c *Card) WithContent(content Renderable) *Card {
	c.Content = content

	return c
}

// Render writes the card HTML.
func (c *Card) Render(w io.Writer) error {
	content, err := renderChild(c.Content)
	if err != nil {
		return fmt.Errorf("rendering card content: %w", err)
	}

	return writeTemplate(w, "card.html", cardData{
		Title:    c.Title,
		Subtitle: c.Subtitle,
		Content:  content,
	})
}

// Text renders escaped plain text.
type Text struct {
	Content string
}

// NewText creates a new text block.
func NewText(content string) *Text {
	return &Text{Content: content}
}

// Render writes the text content.
func (t *Text) Render(w io.Writer) error {
	_, err := io.WriteString(w, template.HTMLEscapeString(t.Content))
	if err != nil {
		return fmt.Errorf("writing text: %w", err)
	}

	return nil
}

// Grid renders a responsive grid layout of up to four columns.
type Grid struct {
	Columns int
	Items   []Renderable
}

// NewGrid creates a new grid layout.
func NewGrid(columns int, items ...Renderable) *Grid {
	return &Grid{Columns: min(max(columns, 1), maxGridColumns), Items: items}
}

// Render writes the grid HTML.
func (g *Grid) Render(w io.Writer) error {
	items := make([]template.HTML, len(g.Items))

	for i, item := range g.Items {
		html, err := renderChild(item)
		if err != nil {
			return fmt.Errorf("rendering grid item %d: %w", i, err)
		}

		items[i] = html
	}

	return writeTemplate(w, "grid.html", gridData{
		ColClass: fmt.Sprintf("grid-%d", g.Columns),
		Items:    items,
	})
}

// Stat renders a single headline number.
type Stat struct {
	Label string
	Value string
	Trend string
}

// NewStat creates a new stat display.
func NewStat(label, value string) *Stat {
	return &Stat{Label: label, Value: value}
}

// WithTrend sets the caption under the value.
func (s *Stat) WithTrend(trend string) *Stat {
	s.Trend = trend

	return s
}

// Render writes the stat HTML.
func (s *Stat) Render(w io.Writer) error {
	return writeTemplate(w, "stat.html", statData{
		Label: s.Label,
		Value: s.Value,
		Trend: s.Trend,
	})
}

// Table renders an HTML table. Cells are escaped unless added with AddHTMLRow.
type Table struct {
	Headers []string
	Rows    [][]template.HTML
	Striped bool
}

// NewTable creates a new striped table.
func NewTable(headers ...string) *Table {
	return &Table{Headers: headers, Striped: true}
}

// AddRow adds a row of plain-text cells.
func (t *Table) AddRow(cells ...string) *Table {
	row := make([]template.HTML, len(cells))
	for i, cell := range cells {
		row[i] = template.HTML(template.HTMLEscapeString(cell)) //nolint:gosec // escaped above.
	}

	t.Rows = append(t.Rows, row)

	return t
}

// AddHTMLRow adds a row of trusted HTML cells.
func (t *Table) AddHTMLRow(cells ...template.HTML) *Table {
	t.Rows = append(t.Rows, cells)

	return t
}

// Render writes the table HTML.
func (t *Table) Render(w io.Writer) error {
	return writeTemplate(w, "table.html", tableData{
		Headers: t.Headers,
		Rows:    t.Rows,
		Striped: t.Striped,
	})
}

func renderChild(r Renderable) (template.HTML, error) {
	if r == nil {
		return "", nil
	}

	var buf bytes.Buffer

	err := r.Render(&buf)
	if err != nil {
		return "", err
	}

	return template.HTML(extractChartContent(buf.String())), nil //nolint:gosec // rendered by trusted components.
}

func writeTemplate(w io.Writer, name string, data any) error {
	html, err := renderTemplate(name, data)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, string(html))
	if err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}

	return nil
}
