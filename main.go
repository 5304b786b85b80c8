package main

import (
	cmd "github.com/omap-tiler/utrfill/cmd/utrfill"
)

func main() {
	cmd.Execute()
}
