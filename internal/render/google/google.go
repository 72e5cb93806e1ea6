package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"dashgen/internal/core"
	"dashgen/internal/gsheets"
	"dashgen/internal/render"

	gsheet "google.golang.org/api/sheets/v4"
)

// Client paints the overview grid into a spreadsheet sheet. Formulas are
// written with USER_ENTERED so the rendering target's formula engine
// evaluates them; this code never does.
type Client struct {
	svc              *gsheet.Service
	spreadsheetID    string
	sheetName        string
	sharedFlagColumn string
}

var _ render.Renderer = (*Client)(nil)

func New(ctx context.Context, spreadsheetID, sheetName, sharedFlagColumn string) (*Client, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("missing spreadsheet ID")
	}
	if strings.TrimSpace(sheetName) == "" {
		return nil, errors.New("missing overview sheet name")
	}

	svc, err := gsheets.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:              svc,
		spreadsheetID:    spreadsheetID,
		sheetName:        sheetName,
		sharedFlagColumn: sharedFlagColumn,
	}, nil
}

// Render clears the overview sheet, writes the complete row set, and applies
// the style hints (frozen first row, bold header).
func (c *Client) Render(ctx context.Context, rows []core.LayoutRow) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}
	if len(rows) == 0 {
		return core.ErrEmptyLayout
	}

	clearRange := fmt.Sprintf("%s!A:Z", c.sheetName)
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRange, err)
	}

	sharedIdx := columnIndex(c.sharedFlagColumn)
	values := make([][]any, 0, len(rows))
	for _, row := range rows {
		values = append(values, c.rowValues(row, sharedIdx))
	}

	writeRange := fmt.Sprintf("%s!A1", c.sheetName)
	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, writeRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("write %s: %w", writeRange, err)
	}

	if err := c.applyStyleHints(ctx); err != nil {
		// Style hints are cosmetic; the grid itself is already written.
		slog.WarnContext(ctx, "Failed to apply overview style hints", "sheet", c.sheetName, "error", err)
	}

	slog.InfoContext(ctx, "Overview rendered", "sheet", c.sheetName, "rows", len(rows))
	return nil
}

func (c *Client) rowValues(row core.LayoutRow, sharedIdx int) []any {
	width := 1 + len(row.Cells)
	if row.Kind == core.RowCategory && sharedIdx >= width {
		width = sharedIdx + 1
	}
	out := make([]any, width)
	for i := range out {
		out[i] = ""
	}
	out[0] = row.Label
	for i, cell := range row.Cells {
		out[1+i] = cell
	}
	if row.Kind == core.RowCategory && sharedIdx >= 0 {
		out[sharedIdx] = row.SharedFlag
	}
	return out
}

func (c *Client) applyStyleHints(ctx context.Context) error {
	sheetID, err := c.sheetID(ctx)
	if err != nil {
		return err
	}

	requests := []*gsheet.Request{
		{
			UpdateSheetProperties: &gsheet.UpdateSheetPropertiesRequest{
				Properties: &gsheet.SheetProperties{
					SheetId: sheetID,
					GridProperties: &gsheet.GridProperties{
						FrozenRowCount: 1,
					},
				},
				Fields: "gridProperties.frozenRowCount",
			},
		},
		{
			RepeatCell: &gsheet.RepeatCellRequest{
				Range: &gsheet.GridRange{
					SheetId:       sheetID,
					StartRowIndex: 0,
					EndRowIndex:   1,
				},
				Cell: &gsheet.CellData{
					UserEnteredFormat: &gsheet.CellFormat{
						TextFormat: &gsheet.TextFormat{Bold: true},
					},
				},
				Fields: "userEnteredFormat.textFormat.bold",
			},
		},
	}

	_, err = c.svc.Spreadsheets.BatchUpdate(c.spreadsheetID, &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("apply style hints: %w", err)
	}
	return nil
}

func (c *Client) sheetID(ctx context.Context) (int64, error) {
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range ss.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.sheetName {
			return sheet.Properties.SheetId, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found", c.sheetName)
}

// columnIndex converts a column letter to its zero-based index.
func columnIndex(col string) int {
	idx := 0
	for _, r := range col {
		if r < 'A' || r > 'Z' {
			return -1
		}
		idx = idx*26 + int(r-'A') + 1
	}
	return idx - 1
}
