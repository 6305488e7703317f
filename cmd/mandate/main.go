package main

import "github.com/rustyeddy/mandate/internal/cli"

func main() {
	cli.Execute()
}
