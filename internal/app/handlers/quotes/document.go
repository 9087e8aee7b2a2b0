package quotes

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"tripquote/internal/app/handlers/support"
	"tripquote/internal/app/uow"
	domainquote "tripquote/internal/domain/quote"
	"tripquote/internal/domain/shared/money"
)

// DocumentStore is the upload surface for client-facing quote documents.
type DocumentStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
}

type ExportDocumentCommand struct {
	QuoteID string
}

type ExportDocumentResult struct {
	URL string
}

// ExportDocumentHandler renders a quote as a shareable HTML document and
// uploads it to object storage. Agents send the returned link to clients
// who have no portal access.
type ExportDocumentHandler struct {
	UoWFactory uow.Factory
	Store      DocumentStore
}

func (h *ExportDocumentHandler) Handle(ctx context.Context, cmd ExportDocumentCommand) (*ExportDocumentResult, error) {
	unit, ctx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	q, err := unit.Quotes().ByID(ctx, domainquote.QuoteID(cmd.QuoteID))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, documentView(q)); err != nil {
		return nil, fmt.Errorf("render quote document: %w", err)
	}
	key := fmt.Sprintf("quotes/%s.html", q.Number)
	url, err := h.Store.Upload(ctx, key, &buf, "text/html; charset=utf-8")
	if err != nil {
		return nil, err
	}
	return &ExportDocumentResult{URL: url}, nil
}

type documentModel struct {
	Number     string
	ClientName string
	StartDate  string
	EndDate    string
	Items      []documentItem
	Total      string
	Currency   string
	ValidUntil string
}

type documentItem struct {
	Name     string
	Quantity int
	Total    string
}

func documentView(q *domainquote.Quote) documentModel {
	total := money.For(q.Totals.Total, q.Currency)
	m := documentModel{
		Number:     q.Number,
		ClientName: q.ClientName,
		StartDate:  q.Range.Start.Format("2 Jan 2006"),
		EndDate:    q.Range.End.Format("2 Jan 2006"),
		Total:      total.Display(),
		Currency:   total.Currency,
		ValidUntil: q.ValidUntil.Format("2 Jan 2006"),
	}
	for _, it := range q.Items {
		m.Items = append(m.Items, documentItem{
			Name:     it.Name,
			Quantity: it.Quantity,
			Total:    money.For(it.TotalPrice, q.Currency).Display(),
		})
	}
	return m
}

// The document shows the client-facing price only. The agent's discount,
// markup split and platform commission never appear on it.
var documentTemplate = template.Must(template.New("quote").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Quote {{.Number}}</title></head>
<body>
<h1>Travel Quote {{.Number}}</h1>
<p>Prepared for {{.ClientName}}</p>
<p>Travel dates: {{.StartDate}} to {{.EndDate}}</p>
{{if .Items}}<table border="1" cellpadding="6">
<tr><th>Item</th><th>Qty</th><th>Price ({{.Currency}})</th></tr>
{{range .Items}}<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{.Total}}</td></tr>
{{end}}</table>{{end}}
<h2>Total: {{.Currency}} {{.Total}}</h2>
<p>This quote is valid until {{.ValidUntil}}.</p>
</body>
</html>
`))
