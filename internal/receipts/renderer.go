// Package receipts generates receipt documents for completed transactions and
// manages time-limited shareable links to them.
package receipts

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/Dev-Mentorship-Programme/transaction-service/internal/domain/transaction"
)

const receiptContentType = "text/html; charset=utf-8"

var receiptTemplate = template.Must(template.New("receipt").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <title>Transaction Receipt {{.Reference}}</title>
</head>
<body>
  <h1>Transaction Receipt</h1>
  <table>
    <tr><td>Reference</td><td>{{.Reference}}</td></tr>
    <tr><td>Date</td><td>{{.CreatedAt.Format "2006-01-02 15:04:05 MST"}}</td></tr>
    <tr><td>Type</td><td>{{.Type}}</td></tr>
    <tr><td>Channel</td><td>{{.Channel}}</td></tr>
    <tr><td>Amount</td><td>{{.Currency}} {{.Amount.StringFixed 2}}</td></tr>
    <tr><td>Narration</td><td>{{.Narration}}</td></tr>
    <tr><td>Status</td><td>{{.Status}}</td></tr>
    <tr><td>Account</td><td>{{.AccountID}}</td></tr>
    <tr><td>Beneficiary Account</td><td>{{.DestinationAccountID}}</td></tr>
  </table>
</body>
</html>
`))

// Renderer produces receipt documents from transactions
type Renderer interface {
	Render(t *transaction.Transaction) ([]byte, error)
}

// HTMLRenderer renders receipts from the built-in HTML template
type HTMLRenderer struct{}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{}
}

func (r *HTMLRenderer) Render(t *transaction.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, t); err != nil {
		return nil, fmt.Errorf("failed to render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
