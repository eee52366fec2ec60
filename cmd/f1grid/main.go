package main

import "github.com/jwulff/f1grid/internal/cli"

func main() {
	cli.Execute()
}
