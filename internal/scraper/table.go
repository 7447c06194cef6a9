package scraper

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/nhl-scores/internal/game"
	"golang.org/x/net/html"
)

// ErrTableNotFound is returned when a page has no table with the requested id
var ErrTableNotFound = errors.New("table not found")

// StructuralParseError describes a table that lacks a header or body section
type StructuralParseError struct {
	Table  string
	Reason string
}

func (e *StructuralParseError) Error() string {
	return fmt.Sprintf("table %s: %s", e.Table, e.Reason)
}

// Table is a parsed results table
type Table struct {
	ID      string
	Columns []string
	Games   []game.Game
}

// ParseTable extracts the rows of table#id as games.
// Tables that the page ships inside HTML comments are found as well.
func ParseTable(doc *goquery.Document, id string) (*Table, error) {
	table := doc.Find(tableSelector(id)).First()
	if table.Length() == 0 {
		commented, err := findCommentedTable(doc, id)
		if err != nil {
			return nil, err
		}
		if commented == nil {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, id)
		}
		table = commented
	}

	return parseTable(table, id)
}

func tableSelector(id string) string {
	return fmt.Sprintf(`table[id=%q]`, id)
}

// findCommentedTable searches comment nodes for a commented-out copy of the table
func findCommentedTable(doc *goquery.Document, id string) (*goquery.Selection, error) {
	marker := fmt.Sprintf(`id="%s"`, id)

	var comments []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.CommentNode && strings.Contains(n.Data, marker) {
			comments = append(comments, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range doc.Nodes {
		walk(n)
	}

	for _, data := range comments {
		fragment, err := goquery.NewDocumentFromReader(strings.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parsing commented table: %w", err)
		}
		if table := fragment.Find(tableSelector(id)).First(); table.Length() > 0 {
			return table, nil
		}
	}

	return nil, nil
}

func parseTable(table *goquery.Selection, id string) (*Table, error) {
	thead := table.ChildrenFiltered("thead").First()
	if thead.Length() == 0 {
		return nil, &StructuralParseError{Table: id, Reason: "missing thead"}
	}

	// Grouping rows ("over_header") sit above the real column header
	header := thead.ChildrenFiltered("tr").Not(".over_header").First()
	if header.Length() == 0 {
		return nil, &StructuralParseError{Table: id, Reason: "missing header row"}
	}

	bodies := table.ChildrenFiltered("tbody")
	if bodies.Length() == 0 {
		return nil, &StructuralParseError{Table: id, Reason: "missing tbody"}
	}

	columns := make([]string, 0)
	header.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		if name, ok := cell.Attr("data-stat"); ok && name != "" {
			columns = append(columns, name)
		}
	})

	games := make([]game.Game, 0)
	bodies.ChildrenFiltered("tr").Each(func(_ int, row *goquery.Selection) {
		// Header rows repeated every few weeks inside the body
		if row.HasClass("thead") {
			return
		}
		if g, ok := parseRow(row); ok {
			games = append(games, g)
		}
	})

	return &Table{ID: id, Columns: columns, Games: games}, nil
}

func parseRow(row *goquery.Selection) (game.Game, bool) {
	var fields []game.Field
	var link *string

	row.ChildrenFiltered("th, td").Each(func(_ int, cell *goquery.Selection) {
		name, ok := cell.Attr("data-stat")
		if !ok || name == "" {
			return
		}
		fields = append(fields, game.Field{Name: name, Value: strings.TrimSpace(cell.Text())})

		if game.IsDateField(name) {
			if href, ok := cell.Find("a[href]").First().Attr("href"); ok {
				link = &href
			}
		}
	})

	if len(fields) == 0 {
		return game.Game{}, false
	}
	return game.New(fields, link), true
}
