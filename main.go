package main

import "github.com/hunThubSpace/subscope/cmd"

func main() {
	cmd.Execute()
}
