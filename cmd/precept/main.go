package main

import "github.com/precept-tool/precept/internal/cli"

func main() {
	cli.Execute()
}
