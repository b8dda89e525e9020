package main

import (
	"log"

	"pet-dash/internal/grafana"
)

func main() {
	if err := grafana.Render("build"); err != nil {
		log.Fatal(err)
	}
}
