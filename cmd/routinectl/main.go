package main

import (
	"fmt"
	"os"

	"routine-maker/backend/internal/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout).Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
