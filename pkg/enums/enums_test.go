package enums

import "testing"

func TestParseMediaTypeAcceptsDisplayAndSlug(t *testing.T) {
	tests := map[string]MediaType{
		"Movie":      MediaTypeMovie,
		"tv show":    MediaTypeTVShow,
		"tv":         MediaTypeTVShow,
		"games":      MediaTypeVideoGame,
		" Anime ":    MediaTypeAnime,
		"Video Game": MediaTypeVideoGame,
	}
	for input, want := range tests {
		got, err := ParseMediaType(input)
		if err != nil {
			t.Fatalf("ParseMediaType(%q) returned error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseMediaType(%q) = %q, want %q", input, got, want)
		}
	}
	if _, err := ParseMediaType("podcast"); err == nil {
		t.Fatal("expected unknown media type to fail")
	}
}

func TestMediaTypeSlugAndKey(t *testing.T) {
	if got := MediaTypeTVShow.Slug(); got != "tv" {
		t.Fatalf("unexpected slug %q", got)
	}
	if got := MediaTypeVideoGame.Key(); got != "videogame" {
		t.Fatalf("unexpected key %q", got)
	}
	if _, ok := MediaTypeFromSlug("podcasts"); ok {
		t.Fatal("unknown slug should not resolve")
	}
	if !MediaTypeAnime.HasEpisodes() || MediaTypeMovie.HasEpisodes() {
		t.Fatal("unexpected HasEpisodes result")
	}
}

func TestParseCatalogSortFallsBackToRecent(t *testing.T) {
	if got := ParseCatalogSort("RATING"); got != CatalogSortRating {
		t.Fatalf("expected rating, got %q", got)
	}
	if got := ParseCatalogSort("popularity"); got != CatalogSortRecent {
		t.Fatalf("expected recent fallback, got %q", got)
	}
	if got := ParseCatalogSort(""); got != CatalogSortRecent {
		t.Fatalf("expected recent fallback, got %q", got)
	}
}

func TestParseAssetTypes(t *testing.T) {
	if _, err := ParseImageType("Backdrop"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseImageType("backdrop"); err == nil {
		t.Fatal("image types are case sensitive")
	}
	if _, err := ParseVideoType("Trailer"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseUserRole("root"); err == nil {
		t.Fatal("expected invalid role error")
	}
}
