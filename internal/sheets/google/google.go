// Package google reads sales tables from a Google Sheets spreadsheet with one
// tab per category.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"menusales/internal/core"
	ports "menusales/internal/sheets"

	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	layouts       ports.LayoutResolver
}

// Ensure interface conformance
var (
	_ ports.TableLoader = (*Client)(nil)
	_ ports.SheetLister = (*Client)(nil)
)

// New creates a read-only Sheets client for spreadsheetID. When no client
// options are given, service account credentials are taken from the
// environment (GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS).
func New(ctx context.Context, spreadsheetID string, layouts ports.LayoutResolver, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID = strings.TrimSpace(spreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	if len(opts) == 0 {
		creds, err := credentialsFromEnv(ctx)
		if err != nil {
			return nil, err
		}
		opts = []goption.ClientOption{
			goption.WithCredentialsJSON(creds),
			goption.WithScopes(gsheet.SpreadsheetsReadonlyScope),
		}
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &Client{svc: svc, spreadsheetID: spreadsheetID, layouts: layouts}, nil
}

// credentialsFromEnv resolves service account JSON, inline first.
func credentialsFromEnv(ctx context.Context) ([]byte, error) {
	inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if inline == "" && file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	switch {
	case inline != "":
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	case file != "":
		slog.DebugContext(ctx, "Reading service account credentials", "path", file)
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		return b, nil
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
}

func (c *Client) Load(ctx context.Context, category core.Category) (core.SalesTable, error) {
	if c.svc == nil {
		return core.SalesTable{}, errors.New("sheets service not initialized")
	}
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, sheetRange(category)).
		ValueRenderOption("UNFORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Context(ctx).Do()
	if err != nil {
		if !isMissingSheet(err) {
			slog.WarnContext(ctx, "Spreadsheet read failed", "spreadsheet_id", c.spreadsheetID, "category", category, "error", err)
		}
		return core.SalesTable{}, &core.NotFoundError{Category: category, Err: fmt.Errorf("read sheet: %w", err)}
	}

	grid := make([][]string, len(resp.Values))
	for i, row := range resp.Values {
		grid[i] = ports.ToStrings(row)
	}
	t, err := ports.ParseGrid(category, c.layoutOf(category), grid)
	if err != nil {
		return core.SalesTable{}, err
	}
	slog.DebugContext(ctx, "Spreadsheet tab loaded", "spreadsheet_id", c.spreadsheetID, "category", category, "rows", len(t.Rows))
	return t, nil
}

// Sheets lists the tab titles of the spreadsheet in display order.
func (c *Client) Sheets(ctx context.Context) ([]core.Category, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	ss, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("get spreadsheet: %w", err)
	}
	out := make([]core.Category, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		out = append(out, core.Category(s.Properties.Title))
	}
	return out, nil
}

func (c *Client) layoutOf(category core.Category) core.Layout {
	if c.layouts == nil {
		return core.ItemsOnRows
	}
	return c.layouts.LayoutOf(category)
}

// sheetRange addresses a whole tab, quoting the title so names with spaces
// or quotes survive A1 parsing.
func sheetRange(category core.Category) string {
	return "'" + strings.ReplaceAll(string(category), "'", "''") + "'"
}

// isMissingSheet reports the API's answer for a tab that does not exist.
func isMissingSheet(err error) bool {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return false
	}
	return gerr.Code == http.StatusNotFound ||
		(gerr.Code == http.StatusBadRequest && strings.Contains(gerr.Message, "Unable to parse range"))
}
