// test/benchmarks/helpers.go
package benchmarks

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/ninco/ninco-be/internal/core/domain"
)

// cartWithDuplicates returns n cart lines spread over n/2 distinct products.
func cartWithDuplicates(n int) []domain.CartItem {
	distinct := n/2 + 1
	items := make([]domain.CartItem, n)
	for i := range items {
		id := int64(i%distinct + 1)
		items[i] = domain.CartItem{
			ProductID: id,
			Name:      fmt.Sprintf("Product %d", id),
			Quantity:  1 + i%3,
			UnitPrice: decimal.NewFromInt(id).Add(decimal.RequireFromString("0.99")),
		}
	}
	return items
}

func invoiceWithLines(n int) *domain.Invoice {
	inv := &domain.Invoice{ID: 1, StoreID: 1, ClientName: "Benchmark Client"}
	for i := 0; i < n; i++ {
		inv.Lines = append(inv.Lines, domain.SaleLine{
			InvoiceID:   1,
			StoreID:     1,
			EmployeeID:  1,
			ProductID:   int64(i + 1),
			ProductName: fmt.Sprintf("Product with a fairly long name %d", i),
			Quantity:    1 + i%4,
			UnitPrice:   decimal.RequireFromString("12.50"),
		})
	}
	return inv
}

func stockText(rows int) []byte {
	var sb strings.Builder
	sb.WriteString("Stock count\n")
	for i := 1; i <= rows; i++ {
		fmt.Fprintf(&sb, "%d %d\n", i, i%50+1)
	}
	return []byte(sb.String())
}

func stockWorkbook(b *testing.B, rows int) []byte {
	b.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	if err != nil {
		b.Fatal(err)
	}
	header := sheet.AddRow()
	header.AddCell().SetString("product_id")
	header.AddCell().SetString("quantity")
	for i := 1; i <= rows; i++ {
		row := sheet.AddRow()
		row.AddCell().SetString(fmt.Sprint(i))
		row.AddCell().SetString(fmt.Sprint(i%50 + 1))
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		b.Fatal(err)
	}
	return buf.Bytes()
}
