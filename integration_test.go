package registry

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestIntegrationFullResolve exercises the whole pipeline end to end against
// an httptest registry: index -> deferred page -> dependency groups,
// followed by a ResolveOne of the same package, which opens its own session
// cache and so fetches the index and page again.
func TestIntegrationFullResolve(t *testing.T) {
	var indexHits, pageHits int

	depGroups := []depGroupJSON{
		{TargetFramework: "net6.0", Dependencies: []depJSON{
			{ID: "Newtonsoft.Json", Range: "[12.0.1,)"},
		}},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/reg/registrations/App/index.json":
			indexHits++
			idx := registrationIndex{Items: []registrationItem{{
				ID: "http://" + r.Host + "/reg/App/page1.json", Lower: "1.0.0", Upper: "2.0.0",
			}}}
			json.NewEncoder(w).Encode(idx)
		case "/reg/App/page1.json":
			pageHits++
			entry1, _ := json.Marshal(catalogEntry{ID: "App", Version: "1.0.0", DependencyGroups: depGroups})
			entry2, _ := json.Marshal(catalogEntry{ID: "App", Version: "2.0.0", DependencyGroups: depGroups})
			page := registrationPage{Items: []registrationLeaf{
				{CatalogEntry: entry1}, {CatalogEntry: entry2},
			}}
			json.NewEncoder(w).Encode(page)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	resolver, err := New(http.DefaultClient, regSource{srv.URL + "/reg"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	all, err := resolver.ResolveAll(context.Background(), "App")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d entries, want 2", len(all))
	}
	SortByIdentity(all)
	if all[0].Identity.Version.String() != "1.0.0" || all[1].Identity.Version.String() != "2.0.0" {
		t.Errorf("unexpected order after SortByIdentity: %+v", all)
	}
	for _, info := range all {
		dep, ok := NearestFramework(info.Groups, "net6.0")
		if !ok || len(dep.Deps) != 1 || dep.Deps[0].ID != "Newtonsoft.Json" {
			t.Errorf("entry %v missing expected dependency group", info.Identity)
		}
	}
	if indexHits != 1 || pageHits != 1 {
		t.Errorf("indexHits=%d pageHits=%d, want 1 and 1", indexHits, pageHits)
	}

	one, err := resolver.ResolveOne(context.Background(), "App", "1.0.0")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if one == nil || one.Identity.Version.String() != "1.0.0" {
		t.Errorf("ResolveOne() = %v, want version 1.0.0", one)
	}
	// ResolveOne uses its own session, so the index and page are fetched
	// again rather than reusing resolver.ResolveAll's cache.
	if indexHits != 2 || pageHits != 2 {
		t.Errorf("indexHits=%d pageHits=%d, want 2 and 2 after a second top-level call", indexHits, pageHits)
	}
}

// TestIntegrationFlatListingFallback exercises protocol-F end to end for a
// source that only advertises FlatListSource.
func TestIntegrationFlatListingFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := flatListingResponse{Versions: []flatVersionEntry{
			{Version: "1.0.0"},
			{Version: "1.1.0-beta", DependencyGroups: []depGroupJSON{
				{Dependencies: []depJSON{{ID: "Dep"}}},
			}},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	resolver, err := New(http.DefaultClient, flatSource{srv.URL})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	all, err := resolver.ResolveAll(context.Background(), "Widget")
	if err != nil {
		t.Fatalf("ResolveAll() error = %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("got %d entries, want 2", len(all))
	}

	one, err := resolver.ResolveOne(context.Background(), "Widget", "1.1.0-beta")
	if err != nil {
		t.Fatalf("ResolveOne() error = %v", err)
	}
	if one == nil || len(one.Groups) != 1 || one.Groups[0].Deps[0].ID != "Dep" {
		t.Errorf("ResolveOne() = %+v, want a single Dep dependency", one)
	}
}
