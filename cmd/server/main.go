package main

import "github.com/Skotchmaster/geotag_api/internal/cli"

func main() {
	cli.Execute()
}
