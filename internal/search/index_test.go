package search_test

import (
	"testing"

	"tunedb/internal/ast"
	"tunedb/internal/diag"
	"tunedb/internal/parser"
	"tunedb/internal/pitch"
	"tunedb/internal/search"
	"tunedb/internal/source"
)

func parseOne(t *testing.T, src string) *ast.Tune {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("tune.abc", []byte(src))
	bag := diag.NewBag(10)
	res := parser.ParseFile(fs, fs.Get(id), parser.Options{
		Reporter: diag.BagReporter{Bag: bag}, MaxErrors: 10,
	})
	if bag.HasErrors() || len(res.Tunes) != 1 {
		t.Fatalf("bad fixture %q: %v", src, bag.Items())
	}
	return res.Tunes[0]
}

func buildIndex(t *testing.T) *search.Index {
	t.Helper()
	ix := search.NewIndex()
	ix.Add(1, parseOne(t, "X:1\nT:The Rising Scale\nR:reel\nM:4/4\nK:C\nC D E F|G A B c|\n"))
	ix.Add(2, parseOne(t, "X:2\nT:The Falling Scale\nR:jig\nM:6/8\nK:C\nc B A G|F E D C|\n"))
	ix.Add(3, parseOne(t, "X:3\nT:Arpeggio Air\nR:reel\nM:4/4\nK:G\nG B d g|d B G B|\n"))
	return ix
}

func TestMelodySearchRanksBySimilarity(t *testing.T) {
	ix := buildIndex(t)
	// The rising scale's own intervals must rank tune 1 first.
	tune := parseOne(t, "X:9\nK:C\nC D E F|G A B c|\n")
	ivs := pitch.Intervals(pitch.MidiSequence(tune))

	res := ix.Search(search.Query{Intervals: ivs})
	if res.Total == 0 || res.Hits[0].ID != 1 {
		t.Fatalf("hits = %+v, want tune 1 first", res.Hits)
	}
	if res.Hits[0].Score <= 0.99 {
		t.Errorf("exact match score = %v, want ~1", res.Hits[0].Score)
	}
}

func TestFacetFilter(t *testing.T) {
	ix := buildIndex(t)
	res := ix.Search(search.Query{Facets: map[string]string{"rhythm": "reel"}})
	if res.Total != 2 {
		t.Fatalf("total = %d, want 2", res.Total)
	}
	// Unranked filter results come back in id order.
	if res.Hits[0].ID != 1 || res.Hits[1].ID != 3 {
		t.Errorf("hits = %+v", res.Hits)
	}
}

func TestFacetsIntersect(t *testing.T) {
	ix := buildIndex(t)
	res := ix.Search(search.Query{Facets: map[string]string{
		"rhythm": "reel",
		"key":    "G",
	}})
	if res.Total != 1 || res.Hits[0].ID != 3 {
		t.Errorf("hits = %+v, want only tune 3", res.Hits)
	}
}

func TestTitleSearchFoldsCase(t *testing.T) {
	ix := buildIndex(t)
	res := ix.Search(search.Query{Title: "FALLING scale"})
	if res.Total != 1 || res.Hits[0].ID != 2 {
		t.Errorf("hits = %+v, want only tune 2", res.Hits)
	}
}

func TestPagination(t *testing.T) {
	ix := buildIndex(t)
	page1 := ix.Search(search.Query{Rows: 2})
	page2 := ix.Search(search.Query{Rows: 2, Offset: 2})
	if page1.Total != 3 || page2.Total != 3 {
		t.Fatalf("totals = %d, %d, want 3", page1.Total, page2.Total)
	}
	if len(page1.Hits) != 2 || len(page2.Hits) != 1 {
		t.Fatalf("page sizes = %d, %d", len(page1.Hits), len(page2.Hits))
	}
	if page2.Hits[0].ID != 3 {
		t.Errorf("page 2 = %+v", page2.Hits)
	}
	// Past the end is empty, not a panic.
	if got := ix.Search(search.Query{Offset: 99}); len(got.Hits) != 0 {
		t.Errorf("far offset hits = %+v", got.Hits)
	}
}

func TestMelodyWithFacetFilter(t *testing.T) {
	ix := buildIndex(t)
	tune := parseOne(t, "X:9\nK:C\nC D E F|G A B c|\n")
	ivs := pitch.Intervals(pitch.MidiSequence(tune))

	res := ix.Search(search.Query{
		Intervals: ivs,
		Facets:    map[string]string{"rhythm": "jig"},
	})
	for _, h := range res.Hits {
		if h.ID == 1 || h.ID == 3 {
			t.Errorf("filtered-out tune in hits: %+v", res.Hits)
		}
	}
}
