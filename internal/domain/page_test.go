package domain

import (
	"encoding/json"
	"testing"
)

func TestAlignPages(t *testing.T) {
	pages := []Page{
		{Num: 1, Fields: []Field{NewField(FieldTypeText, 10, 10)}},
		{Num: 3, Fields: []Field{NewField(FieldTypeText, 20, 20)}},
		{Num: 7, Fields: []Field{NewField(FieldTypeText, 30, 30)}},
	}

	aligned := AlignPages(pages, 3)

	if len(aligned) != 3 {
		t.Fatalf("Expected 3 pages, got %d", len(aligned))
	}
	if len(aligned[0].Fields) != 1 {
		t.Errorf("Page 1 should keep its field")
	}
	if len(aligned[1].Fields) != 0 {
		t.Errorf("Page 2 should be synthesized empty, got %d fields", len(aligned[1].Fields))
	}
	if len(aligned[2].Fields) != 1 {
		t.Errorf("Page 3 should keep its field")
	}
	for i, page := range aligned {
		if page.Num != i+1 {
			t.Errorf("Expected dense numbering, page %d has num %d", i, page.Num)
		}
	}
}

func TestAlignPagesMinimumOnePage(t *testing.T) {
	aligned := AlignPages(nil, 0)
	if len(aligned) != 1 || aligned[0].Num != 1 {
		t.Fatalf("Expected a single synthesized page, got %+v", aligned)
	}
}

func TestClonePagesIsDeep(t *testing.T) {
	pages := []Page{{Num: 1, Fields: []Field{NewField(FieldTypeText, 5, 5)}}}

	cloned := ClonePages(pages)
	cloned[0].Fields[0].X = 500

	if pages[0].Fields[0].X != 5 {
		t.Errorf("Clone mutated the original: x=%g", pages[0].Fields[0].X)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	value := "typed value"
	pages := []Page{
		{
			Num: 1,
			Fields: []Field{
				{
					ID: "f-1", Type: FieldTypeText, X: 50, Y: 50, Width: 180, Height: 40,
					MapField: "Example", FontSize: 18, Color: "#ff0000",
					FontFamily: "standard:roboto", Opacity: 0.8,
					BackgroundColor: "#1eff00", Value: &value, Multiline: true,
				},
			},
		},
		{Num: 2, Fields: []Field{}},
	}

	data, err := ExportPages(pages)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	parsed, err := ParseImport(data)
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	want, _ := json.Marshal(pages)
	got, _ := json.Marshal(parsed)
	if string(want) != string(got) {
		t.Errorf("Round trip mismatch:\nwant %s\ngot  %s", want, got)
	}
}

func TestParseImportBareArray(t *testing.T) {
	pages, err := ParseImport([]byte(`[{"num":1,"fields":[]}]`))
	if err != nil {
		t.Fatalf("Expected bare array to parse, got %v", err)
	}
	if len(pages) != 1 || pages[0].Num != 1 {
		t.Errorf("Unexpected pages: %+v", pages)
	}
}

func TestParseImportRejectsMalformed(t *testing.T) {
	for _, payload := range []string{`{"foo": 1}`, `not json`, `42`, `{"pages": 5}`, `null`} {
		if _, err := ParseImport([]byte(payload)); err == nil {
			t.Errorf("Expected %q to be rejected", payload)
		}
	}
}

func TestParseImportNormalizesFields(t *testing.T) {
	pages, err := ParseImport([]byte(`{"pages":[{"num":1,"fields":[{"type":"text","x":10,"y":10,"width":-4,"opacity":9}]}]}`))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	field := pages[0].Fields[0]
	if field.Width != DefaultFieldWidth {
		t.Errorf("Expected default width, got %g", field.Width)
	}
	if field.Opacity != 1 {
		t.Errorf("Expected clamped opacity, got %g", field.Opacity)
	}
	if field.ID == "" {
		t.Error("Expected generated id for imported field")
	}
}
