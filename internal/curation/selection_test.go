package curation

import (
	"errors"
	"fmt"
	"testing"

	"github.com/feedwire/newsdesk/internal/models"
)

func article(i int) models.Article {
	return models.Article{
		Title:      fmt.Sprintf("Story %d", i),
		URL:        fmt.Sprintf("https://example.com/%d", i),
		SourceName: "Example",
	}
}

func TestSelectionCapacity(t *testing.T) {
	var set SelectionSet

	for i := 1; i <= MaxSelection; i++ {
		if err := set.Select(article(i)); err != nil {
			t.Fatalf("Select %d: %v", i, err)
		}
	}

	if err := set.Select(article(6)); !errors.Is(err, ErrSelectionFull) {
		t.Errorf("Expected ErrSelectionFull for the 6th article, got %v", err)
	}
	// The failed insert must not have mutated the set.
	if set.Len() != MaxSelection {
		t.Errorf("Expected the set unchanged at %d members, got %d", MaxSelection, set.Len())
	}
}

func TestSelectionRejectsDuplicateURL(t *testing.T) {
	var set SelectionSet

	if err := set.Select(article(1)); err != nil {
		t.Fatal(err)
	}

	dup := article(1)
	dup.Title = "Same story, different title"
	if err := set.Select(dup); !errors.Is(err, ErrDuplicateSelection) {
		t.Errorf("Expected ErrDuplicateSelection, got %v", err)
	}
	if set.Len() != 1 {
		t.Errorf("Expected 1 member, got %d", set.Len())
	}
}

func TestDeselectPreservesOrder(t *testing.T) {
	var set SelectionSet
	for i := 1; i <= 3; i++ {
		if err := set.Select(article(i)); err != nil {
			t.Fatal(err)
		}
	}

	if err := set.Deselect(article(2).URL); err != nil {
		t.Fatal(err)
	}

	got := set.Articles()
	if len(got) != 2 || got[0].URL != article(1).URL || got[1].URL != article(3).URL {
		t.Errorf("Unexpected order after deselect: %+v", got)
	}

	if err := set.Deselect("https://example.com/nope"); !errors.Is(err, ErrNotSelected) {
		t.Errorf("Expected ErrNotSelected, got %v", err)
	}
}

func TestArticlesReturnsACopy(t *testing.T) {
	var set SelectionSet
	if err := set.Select(article(1)); err != nil {
		t.Fatal(err)
	}

	snapshot := set.Articles()
	snapshot[0].Title = "mutated"

	if set.Articles()[0].Title == "mutated" {
		t.Error("Articles() must not expose internal state for mutation")
	}
}
