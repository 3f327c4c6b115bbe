package registry_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	registry "github.com/cperrin88/nugetmeta"
)

type nugetSource struct{ baseURL string }

func (s nugetSource) RegistrationURL(id string) string {
	return s.baseURL + "/" + id + "/index.json"
}

func Example() {
	source := nugetSource{baseURL: "https://api.nuget.org/v3/registration5-semver2"}
	resolver, err := registry.New(http.DefaultClient, source)
	if err != nil {
		log.Fatal(err)
	}

	info, err := resolver.ResolveOne(context.Background(), "Newtonsoft.Json", "13.0.3")
	if err != nil {
		log.Fatal(err)
	}
	if info == nil {
		fmt.Println("not found")
		return
	}
	fmt.Printf("%s has %d dependency groups\n", info.Identity, len(info.Groups))
}

func Example_resolveAll() {
	source := nugetSource{baseURL: "https://api.nuget.org/v3/registration5-semver2"}
	resolver, err := registry.New(http.DefaultClient, source)
	if err != nil {
		log.Fatal(err)
	}

	all, err := resolver.ResolveAll(context.Background(), "Newtonsoft.Json")
	if err != nil {
		log.Fatal(err)
	}
	registry.SortByIdentity(all)
	fmt.Printf("%d versions known\n", len(all))
}

func ExampleNewFileSource() {
	source := registry.NewFileSource("/var/lib/registry-mirror")
	resolver, err := registry.New(source.HTTPClient(), source)
	if err != nil {
		log.Fatal(err)
	}
	_ = resolver
}

func ExampleWithConcurrencyLimit() {
	source := nugetSource{baseURL: "https://api.nuget.org/v3/registration5-semver2"}
	resolver, err := registry.New(http.DefaultClient, source, registry.WithConcurrencyLimit(4))
	if err != nil {
		log.Fatal(err)
	}
	_ = resolver
}

func ExampleBadDocumentError() {
	source := nugetSource{baseURL: "https://api.nuget.org/v3/registration5-semver2"}
	resolver, err := registry.New(http.DefaultClient, source)
	if err != nil {
		log.Fatal(err)
	}

	_, err = resolver.ResolveOne(context.Background(), "Newtonsoft.Json", "13.0.3")
	var bad *registry.BadDocumentError
	if errors.As(err, &bad) {
		fmt.Printf("bad document at %s\n", bad.URL)
	}
}
