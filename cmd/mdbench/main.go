package main

import (
	"os"

	"github.com/san-kum/mdbench/cmd/mdbench/app"
)

func main() {
	os.Exit(app.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
