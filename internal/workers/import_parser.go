// internal/workers/import_parser.go
package workers

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/tealeg/xlsx/v3"

	"github.com/ninco/ninco-be/internal/core/domain"
)

var stockLineRe = regexp.MustCompile(`^\s*(\d+)\s+(\d+)\s*$`)

// ParseStockFile extracts product_id, quantity rows from an uploaded file.
func ParseStockFile(fileType domain.ImportFileType, data []byte) ([]domain.StockAdjustment, error) {
	var (
		adjustments []domain.StockAdjustment
		err         error
	)
	switch fileType {
	case domain.ImportXLSX:
		adjustments, err = ParseStockXLSX(data)
	case domain.ImportPDF:
		adjustments, err = ParseStockPDF(data)
	default:
		return nil, fmt.Errorf("unsupported file type %q", fileType)
	}
	if err != nil {
		return nil, err
	}
	if len(adjustments) == 0 {
		return nil, fmt.Errorf("no stock rows found")
	}
	return adjustments, nil
}

// ParseStockXLSX reads the first sheet. Row 1 is a header; blank rows are skipped.
func ParseStockXLSX(data []byte) ([]domain.StockAdjustment, error) {
	file, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	var adjustments []domain.StockAdjustment
	rowIdx := 0
	err = file.Sheets[0].ForEachRow(func(r *xlsx.Row) error {
		rowIdx++
		if rowIdx == 1 {
			return nil
		}

		productCell, qtyCell := cellText(r, 0), cellText(r, 1)
		if productCell == "" && qtyCell == "" {
			return nil
		}

		adj, err := parseAdjustment(productCell, qtyCell)
		if err != nil {
			return fmt.Errorf("row %d: %w", rowIdx, err)
		}
		adjustments = append(adjustments, adj)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return adjustments, nil
}

// ParseStockPDF extracts the text of every page and parses it with ParseStockText.
func ParseStockPDF(data []byte) ([]domain.StockAdjustment, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		text.WriteString(content)
		text.WriteString("\n")
	}

	return ParseStockText(text.String())
}

// ParseStockText keeps lines made of exactly two integers and ignores the rest.
func ParseStockText(text string) ([]domain.StockAdjustment, error) {
	var adjustments []domain.StockAdjustment

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		m := stockLineRe.FindStringSubmatch(scanner.Text())
		if m == nil {
			continue
		}
		adj, err := parseAdjustment(m[1], m[2])
		if err != nil {
			return nil, fmt.Errorf("line %q: %w", scanner.Text(), err)
		}
		adjustments = append(adjustments, adj)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read text: %w", err)
	}

	return adjustments, nil
}

func cellText(r *xlsx.Row, i int) string {
	c := r.GetCell(i)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.String())
}

func parseAdjustment(productField, qtyField string) (domain.StockAdjustment, error) {
	productID, err := parseWholeNumber(productField)
	if err != nil || productID <= 0 {
		return domain.StockAdjustment{}, fmt.Errorf("invalid product_id %q", productField)
	}
	qty, err := parseWholeNumber(qtyField)
	if err != nil || qty <= 0 {
		return domain.StockAdjustment{}, fmt.Errorf("invalid quantity %q", qtyField)
	}
	return domain.StockAdjustment{ProductID: productID, Quantity: int(qty)}, nil
}

// parseWholeNumber accepts "12" and spreadsheet renderings such as "12.0".
func parseWholeNumber(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("%q is not a whole number", s)
	}
	return int64(f), nil
}
