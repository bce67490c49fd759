package engine

import (
	"reflect"
	"testing"

	"github.com/IkramKhemiri/Veille-concurrentielle-automatis-e-avec-IA/pkg/models"
)

func sampleRecord(tag string) *models.Record {
	return &models.Record{
		Title:    "Acme " + tag,
		Summary:  "Summary " + tag,
		Services: []models.Item{{URL: "https://acme.example/" + tag, Content: "Service " + tag}},
		Emails:   []string{tag + "@acme.example"},
		RawText:  "raw " + tag,
	}
}

func TestMergeScalarsKeepFirstNonEmpty(t *testing.T) {
	a := &models.Record{Title: "", Slogan: "We build things"}
	b := &models.Record{Title: "Acme", Slogan: "ignored"}
	got := Merge([]*models.Record{a, b})

	if got.Title != "Acme" {
		t.Errorf("Title = %q, want %q", got.Title, "Acme")
	}
	if got.Slogan != "We build things" {
		t.Errorf("Slogan = %q, want %q", got.Slogan, "We build things")
	}
}

func TestMergeDeduplicates(t *testing.T) {
	a := sampleRecord("a")
	once := Merge([]*models.Record{a})
	twice := Merge([]*models.Record{a, a})

	if !reflect.DeepEqual(once, twice) {
		t.Errorf("merging the same page twice changed the result:\nonce:  %+v\ntwice: %+v", once, twice)
	}
	if len(twice.Services) != 1 {
		t.Errorf("Services length = %d, want 1", len(twice.Services))
	}
}

func TestMergeIdempotent(t *testing.T) {
	merged := Merge([]*models.Record{sampleRecord("a"), sampleRecord("b")})
	again := Merge([]*models.Record{merged})

	if !reflect.DeepEqual(merged, again) {
		t.Errorf("re-merging the merged record changed it:\nfirst:  %+v\nsecond: %+v", merged, again)
	}
}

func TestMergePreservesOrder(t *testing.T) {
	got := Merge([]*models.Record{sampleRecord("a"), sampleRecord("b")})
	if len(got.Services) != 2 {
		t.Fatalf("Services length = %d, want 2", len(got.Services))
	}
	if got.Services[0].Content != "Service a" || got.Services[1].Content != "Service b" {
		t.Errorf("Services order = %q, %q", got.Services[0].Content, got.Services[1].Content)
	}
}

func TestMergeSkipsNilPages(t *testing.T) {
	got := Merge([]*models.Record{nil, sampleRecord("a"), nil})
	if got.Title != "Acme a" {
		t.Errorf("Title = %q, want %q", got.Title, "Acme a")
	}
}

func TestIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		rec  *models.Record
		want bool
	}{
		{"nil", nil, true},
		{"zero record", &models.Record{}, true},
		{"title only", &models.Record{Title: "Acme", RawText: "lots of text"}, true},
		{"summary", &models.Record{Summary: "An agency"}, false},
		{"services", &models.Record{Services: []models.Item{{Content: "x"}}}, false},
		{"jobs", &models.Record{Jobs: []models.Item{{Content: "x"}}}, false},
		{"blank summary", &models.Record{Summary: "   "}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEmpty(tt.rec); got != tt.want {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.want)
			}
		})
	}
}
