package main

import "github.com/mcoot/kapal-registry/internal/cli"

func main() {
	cli.Execute()
}
