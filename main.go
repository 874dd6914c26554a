package main

import "github.com/tanq16/galgrab/cmd"

func main() {
	cmd.Execute()
}
