// Package registry is a package dependency metadata resolver: given a
// package identifier, it retrieves from a remote repository the set of
// candidate versions and their declared dependencies, for a downstream
// dependency solver to build install plans from.
//
// Two repository protocols are supported behind one capability facade:
// a paged registration index (protocol-R), a hierarchical JSON document
// partitioned into version-range pages fetched on demand, and a flat
// listing (protocol-F), a non-paged service returning every version of a
// package id in one call.
//
// # Basic usage
//
//	client := &http.Client{Timeout: 30 * time.Second}
//	source := nugetSource{baseURL: "https://api.nuget.org/v3/registration5-semver2"}
//	resolver, err := registry.New(client, source)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	info, err := resolver.ResolveOne(ctx, "Newtonsoft.Json", "13.0.3")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if info == nil {
//	    fmt.Println("not found")
//	}
//
//	all, err := resolver.ResolveAll(ctx, "Newtonsoft.Json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.SortByIdentity(all)
//
// # Capability probing
//
// A source passed to [New] advertises which protocol it speaks by
// implementing [RegistrationSource], [FlatListSource], or both (protocol-R
// is preferred when both are present):
//
//	type nugetSource struct{ baseURL string }
//
//	func (s nugetSource) RegistrationURL(id string) string {
//	    return s.baseURL + "/" + strings.ToLower(id) + "/index.json"
//	}
//
// # Error handling
//
// Use [errors.As] to get detailed information for the error kinds this
// module surfaces:
//
//	var bad *registry.BadDocumentError
//	if errors.As(err, &bad) {
//	    fmt.Printf("bad document at %s\n", bad.URL)
//	}
package registry
