// internal/core/services/receipt.go
package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ninco/ninco-be/internal/core/domain"
)

const (
	receiptWidth       = 48
	receiptNameWidth   = 20
	receiptTimeLayout  = "2006-01-02 15:04:05"
	receiptDefaultName = "NINCO STORE"
)

// ReceiptData is everything printed on a receipt.
type ReceiptData struct {
	Invoice *domain.Invoice
	Store   *domain.Store
	Cashier *domain.Employee
}

// FormatReceipt renders a fixed-width text receipt.
func FormatReceipt(data ReceiptData) []byte {
	var b bytes.Buffer
	stars := strings.Repeat("*", receiptWidth)
	dashes := strings.Repeat("-", receiptWidth)

	b.WriteString(stars + "\n")
	b.WriteString(center(receiptDefaultName) + "\n")
	b.WriteString(stars + "\n")
	if data.Store != nil {
		fmt.Fprintf(&b, "Store:   %s\n", data.Store.Name)
		fmt.Fprintf(&b, "Address: %s\n", data.Store.Address)
		fmt.Fprintf(&b, "Phone:   %s\n", data.Store.Phone)
	}
	fmt.Fprintf(&b, "Invoice: %d\n", data.Invoice.ID)
	fmt.Fprintf(&b, "Date:    %s\n", data.Invoice.CreatedAt.Format(receiptTimeLayout))
	b.WriteString(stars + "\n")
	fmt.Fprintf(&b, "CLIENT:  %s\n", data.Invoice.ClientName)
	b.WriteString(dashes + "\n")
	fmt.Fprintf(&b, "%-20s %5s %10s %10s\n", "PRODUCT", "QTY", "PRICE", "SUBTOTAL")
	b.WriteString(dashes + "\n")

	for _, line := range data.Invoice.Lines {
		fmt.Fprintf(&b, "%-20s %5d %10s %10s\n",
			truncateName(line.ProductName),
			line.Quantity,
			line.UnitPrice.StringFixed(2),
			line.Subtotal().StringFixed(2))
	}

	b.WriteString(dashes + "\n")
	fmt.Fprintf(&b, "TOTAL:   %39s\n", data.Invoice.Total().StringFixed(2))
	b.WriteString(dashes + "\n")
	if data.Cashier != nil {
		fmt.Fprintf(&b, "Cashier: %s\n", data.Cashier.FullName())
	}
	b.WriteString(stars + "\n")
	b.WriteString(center("Thank you for your purchase!") + "\n")
	b.WriteString(stars + "\n")

	return b.Bytes()
}

// truncateName cuts names longer than the product column to 17 runes plus "...".
func truncateName(name string) string {
	r := []rune(name)
	if len(r) <= receiptNameWidth {
		return name
	}
	return string(r[:receiptNameWidth-3]) + "..."
}

func center(s string) string {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad <= 0 {
		return s
	}
	return strings.Repeat(" ", pad) + s
}
