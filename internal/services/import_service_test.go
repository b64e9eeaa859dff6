package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"menusales/internal/core"
	"menusales/internal/sheets/memory"
)

type fakeImporter struct {
	tables []core.SalesTable
	err    error
}

func (f *fakeImporter) Import(_ context.Context, t core.SalesTable) error {
	if f.err != nil {
		return f.err
	}
	f.tables = append(f.tables, t)
	return nil
}

func TestImportSheets(t *testing.T) {
	src := memory.New(core.DefaultCatalog())
	src.Put("drink", [][]string{{"", "2022-01"}, {"cola", "10"}})
	src.Put("sidemenu", [][]string{{"", "2022-01"}, {"fries", "3"}})

	dst := &fakeImporter{}
	rep, err := ImportSheets(context.Background(), src, dst, []core.Category{"drink", "meat", "sidemenu"})
	if err != nil {
		t.Fatalf("ImportSheets: %v", err)
	}
	if !reflect.DeepEqual(rep.Imported, []core.Category{"drink", "sidemenu"}) {
		t.Fatalf("imported = %v", rep.Imported)
	}
	if !reflect.DeepEqual(rep.Skipped, []core.Category{"meat"}) {
		t.Fatalf("skipped = %v", rep.Skipped)
	}
	if len(dst.tables) != 2 || dst.tables[1].Rows[0] != "fries" {
		t.Fatalf("stored tables = %+v", dst.tables)
	}
}

func TestImportSheetsStopsOnBadSheet(t *testing.T) {
	src := memory.New(nil)
	src.Put("drink", [][]string{{"", "2022-01"}, {"cola", "1"}, {"cola", "2"}})

	dst := &fakeImporter{}
	_, err := ImportSheets(context.Background(), src, dst, []core.Category{"drink"})
	if !errors.Is(err, core.ErrDuplicateLabel) {
		t.Fatalf("expected duplicate label error, got %v", err)
	}
	if len(dst.tables) != 0 {
		t.Fatalf("bad sheet was imported")
	}
}

func TestImportSheetsImporterFailure(t *testing.T) {
	src := memory.New(nil)
	src.Put("drink", [][]string{{"", "2022-01"}, {"cola", "1"}})

	boom := errors.New("disk full")
	_, err := ImportSheets(context.Background(), src, &fakeImporter{err: boom}, []core.Category{"drink"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected importer error, got %v", err)
	}
}
