package main

import "github.com/kochabx/apiclient/internal/cli"

func main() {
	cli.Execute()
}
