package main

import (
	"os"

	"github.com/Raoof128/SCRVS/internal/app"
)

func main() {
	if err := app.BuildRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
