package main

import (
	"context"
	"os"
	_ "time/tzdata"

	"github.com/doeshing/statusline-go/internal/infrastructure/cli"
)

func main() {
	os.Exit(cli.Execute(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
