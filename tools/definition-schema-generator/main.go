package main

import (
	"flag"
	"log"
	"os"

	"github.com/grovetools/palette/pkg/definition"
)

func main() {
	out := flag.String("o", "definition.schema.json", "output file")
	flag.Parse()

	data, err := definition.MarshalSchema()
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated definition schema at %s", *out)
}
