// Package schemas embeds the JSON schemas the ingestion layer validates
// dataset records against.
package schemas

import (
	"embed"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed listing/v1.json
var schemasFS embed.FS

var listingSchema *jsonschema.Schema

func init() {
	compiler := jsonschema.NewCompiler()

	file, err := schemasFS.Open("listing/v1.json")
	if err != nil {
		log.Fatalf("schemas: open listing schema: %v", err)
	}
	defer file.Close()

	if err := compiler.AddResource("listing/v1.json", file); err != nil {
		log.Fatalf("schemas: add listing schema resource: %v", err)
	}

	listingSchema, err = compiler.Compile("listing/v1.json")
	if err != nil {
		log.Fatalf("schemas: compile listing schema: %v", err)
	}
}

// ValidateListing checks one decoded dataset record against the canonical
// listing schema.
func ValidateListing(v any) error {
	return listingSchema.Validate(v)
}
