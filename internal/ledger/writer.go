package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lastochkinroman/FurnitureOrderAI/internal/logging"
	"github.com/lastochkinroman/FurnitureOrderAI/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	// FileName is the ledger workbook inside the orders directory
	FileName  = "orders.xlsx"
	SheetName = "Заказы"

	statusNew     = "Новый"
	sumHeader     = "Сумма"
	commentHeader = "Комментарий"

	timestampLayout = "02.01.2006 15:04:05"
	backupLayout    = "20060102T150405Z"
)

var fixedHeaders = []string{"Дата и время", "Адрес", "Точка продаж", "Статус"}

// BackupMirror receives a copy of every ledger backup. Mirror failures are
// logged and never fail the append.
type BackupMirror interface {
	Enabled() bool
	UploadFile(ctx context.Context, name, path string) error
}

// Writer appends confirmed orders to the ledger workbook. All appends are
// serialized through one mutex held across the whole read-modify-write
// cycle, so concurrent confirms cannot lose updates.
type Writer struct {
	dir    string
	path   string
	mirror BackupMirror

	mu sync.Mutex
}

// Result describes a successful append
type Result struct {
	TotalOrders int
	FilePath    string
	BackupPath  string
}

// NewWriter creates a ledger writer rooted at ordersDir, creating the
// directory when absent.
func NewWriter(ordersDir string) (*Writer, error) {
	if err := os.MkdirAll(ordersDir, 0o755); err != nil {
		return nil, fmt.Errorf("create orders directory: %w", err)
	}
	return &Writer{
		dir:  ordersDir,
		path: filepath.Join(ordersDir, FileName),
	}, nil
}

// SetBackupMirror attaches an optional mirror for backup copies
func (w *Writer) SetBackupMirror(m BackupMirror) { w.mirror = m }

// Path returns the ledger file location
func (w *Writer) Path() string { return w.path }

// Append writes one order row. The header is derived from the current
// product catalog; when the on-disk header lacks a column for a current
// product it is appended, never reordering or removing existing columns.
// Quantities are placed by header-name match, so catalog growth cannot
// shift previously written rows. rawResponse is kept in the audit log only.
func (w *Writer) Append(order models.OrderData, pointName string, products []models.Product, rawResponse string) (*Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, headers, dataRows, err := w.openOrCreate(products)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	row, total := buildRow(order, pointName, headers, products)
	rowIndex := dataRows + 2 // 1-based, after the header row

	cell, err := excelize.CoordinatesToCellName(1, rowIndex)
	if err != nil {
		return nil, fmt.Errorf("compute row cell: %w", err)
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return nil, fmt.Errorf("write order row: %w", err)
	}

	if err := f.SaveAs(w.path); err != nil {
		return nil, fmt.Errorf("save ledger: %w", err)
	}

	backupPath := filepath.Join(w.dir, fmt.Sprintf("orders_backup_%s.xlsx", time.Now().UTC().Format(backupLayout)))
	if err := f.SaveAs(backupPath); err != nil {
		return nil, fmt.Errorf("save ledger backup: %w", err)
	}

	result := &Result{
		TotalOrders: dataRows + 1,
		FilePath:    w.path,
		BackupPath:  backupPath,
	}

	logging.Info("order appended to ledger", map[string]interface{}{
		"point":        pointName,
		"total_orders": result.TotalOrders,
		"total_units":  total,
		"raw_response": rawResponse,
	})

	w.mirrorBackup(backupPath)
	return result, nil
}

// openOrCreate opens the ledger workbook, creating it with a fresh header
// when absent, and self-heals the header against the current catalog.
// It returns the open file, the effective header row, and the number of
// existing data rows.
func (w *Writer) openOrCreate(products []models.Product) (*excelize.File, []string, int, error) {
	desired := Headers(products)

	if _, statErr := os.Stat(w.path); statErr != nil {
		f := excelize.NewFile()
		f.SetSheetName(f.GetSheetName(0), SheetName)
		if err := writeHeader(f, desired, 0); err != nil {
			f.Close()
			return nil, nil, 0, err
		}
		return f, desired, 0, nil
	}

	f, err := excelize.OpenFile(w.path)
	if err != nil {
		return nil, nil, 0, fmt.Errorf("open ledger: %w", err)
	}

	idx, err := f.GetSheetIndex(SheetName)
	if err != nil || idx < 0 {
		// Workbook exists but lacks the orders sheet
		if _, err := f.NewSheet(SheetName); err != nil {
			f.Close()
			return nil, nil, 0, fmt.Errorf("create orders sheet: %w", err)
		}
		if err := writeHeader(f, desired, 0); err != nil {
			f.Close()
			return nil, nil, 0, err
		}
		return f, desired, 0, nil
	}

	rows, err := f.GetRows(SheetName)
	if err != nil {
		f.Close()
		return nil, nil, 0, fmt.Errorf("read ledger sheet: %w", err)
	}
	if len(rows) == 0 {
		if err := writeHeader(f, desired, 0); err != nil {
			f.Close()
			return nil, nil, 0, err
		}
		return f, desired, 0, nil
	}

	headers := append([]string(nil), rows[0]...)
	existing := make(map[string]bool, len(headers))
	for _, h := range headers {
		existing[h] = true
	}
	var missing []string
	for _, h := range desired {
		if !existing[h] {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		if err := writeHeader(f, missing, len(headers)); err != nil {
			f.Close()
			return nil, nil, 0, err
		}
		headers = append(headers, missing...)
	}

	return f, headers, len(rows) - 1, nil
}

func writeHeader(f *excelize.File, headers []string, offset int) error {
	for j, h := range headers {
		cell, err := excelize.CoordinatesToCellName(offset+j+1, 1)
		if err != nil {
			return fmt.Errorf("compute header cell: %w", err)
		}
		if err := f.SetCellValue(SheetName, cell, h); err != nil {
			return fmt.Errorf("write header cell: %w", err)
		}
	}
	return nil
}

// Headers returns the full header row for the given catalog: the four
// fixed columns, one column per product, then sum and comment.
func Headers(products []models.Product) []string {
	headers := append([]string(nil), fixedHeaders...)
	for _, p := range products {
		headers = append(headers, p.ColumnHeader())
	}
	return append(headers, sumHeader, commentHeader)
}

// buildRow assembles one ledger row against the effective header layout.
// Cells without a match (stale product columns) stay at zero, mirroring
// quantities the current catalog no longer knows.
func buildRow(order models.OrderData, pointName string, headers []string, products []models.Product) ([]interface{}, int) {
	byHeader := make(map[string]string, len(products))
	for _, p := range products {
		byHeader[p.ColumnHeader()] = p.Variable
	}

	row := make([]interface{}, len(headers))
	total := 0
	for i, h := range headers {
		switch {
		case i < len(fixedHeaders):
			row[i] = 0 // overwritten below
		case h == sumHeader:
			row[i] = 0 // patched after quantities are known
		case h == commentHeader:
			row[i] = ""
		default:
			q := 0
			if variable, ok := byHeader[h]; ok {
				q = order.Quantity(variable)
				total += q
			}
			row[i] = q
		}
	}

	row[0] = time.Now().Format(timestampLayout)
	row[1] = order.Address()
	row[2] = pointName
	row[3] = statusNew
	for i, h := range headers {
		if h == sumHeader {
			row[i] = total
		}
	}
	return row, total
}

func (w *Writer) mirrorBackup(backupPath string) {
	if w.mirror == nil || !w.mirror.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := w.mirror.UploadFile(ctx, filepath.Base(backupPath), backupPath); err != nil {
		logging.Error("ledger backup mirror failed", map[string]interface{}{
			"backup": backupPath, "error": err.Error(),
		})
	}
}
