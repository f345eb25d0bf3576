// Package export forwards stored records to a Google Sheets
// spreadsheet. The sheet is a mirror for reporting; the record store
// stays the source of truth.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"fincontrol/internal/core"
)

// Credentials selects the service account used to reach the Sheets API.
// JSON wins over File when both are set.
type Credentials struct {
	JSON string
	File string
}

type SheetsExporter struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// NewSheetsExporter builds an exporter writing to one sheet of one
// spreadsheet.
func NewSheetsExporter(ctx context.Context, creds Credentials, spreadsheetID, sheetName string) (*SheetsExporter, error) {
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	if sheetName == "" {
		return nil, errors.New("missing sheet name")
	}

	credentialsJSON, err := creds.load()
	if err != nil {
		return nil, err
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	return &SheetsExporter{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

func (c Credentials) load() ([]byte, error) {
	switch {
	case c.JSON != "":
		return []byte(c.JSON), nil
	case c.File != "":
		raw, err := os.ReadFile(c.File)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return raw, nil
	default:
		// Standard Google Cloud fallback.
		if path := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); path != "" {
			raw, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("read service account file: %w", err)
			}
			return raw, nil
		}
		return nil, errors.New("missing service account credentials")
	}
}

// AppendExpense appends one expense row and returns the written range.
func (e *SheetsExporter) AppendExpense(ctx context.Context, expense core.Expense) (string, error) {
	if err := expense.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	return e.appendRow(ctx, expenseRow(expense))
}

func (e *SheetsExporter) appendRow(ctx context.Context, row []any) (string, error) {
	if e.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!A:D", e.sheetName)
	vr := &gsheet.ValueRange{Values: [][]any{row}}

	resp, err := e.svc.Spreadsheets.Values.Append(e.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append row to sheet %s: %w", e.sheetName, err)
	}
	if resp.Updates != nil {
		return resp.Updates.UpdatedRange, nil
	}
	return "", nil
}

// expenseRow lays out Date, Description, Category, Amount. Amount goes
// out as a plain decimal so the sheet can sum the column.
func expenseRow(e core.Expense) []any {
	return []any{e.Date.ISO(), e.Description, e.Category, e.Amount.Reais()}
}
