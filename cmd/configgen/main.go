package main

import (
	"flag"
	"log"

	"github.com/danmuck/serialcomm/internal/config"
)

func main() {
	output := flag.String("output", "commlink.toml", "output path for the config template")
	validate := flag.Bool("validate", false, "validate an existing config file instead of generating one")
	input := flag.String("input", "", "config path for validation (defaults to -output)")
	force := flag.Bool("force", false, "overwrite an existing config file")
	flag.Parse()

	if *validate {
		path := *input
		if path == "" {
			path = *output
		}
		if _, err := config.LoadFile(path); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated commlink config at %s", path)
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote commlink config template to %s", *output)
}
