package main

import (
	"os"

	"github.com/gatehouse-web/gatehouse/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
