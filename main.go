package main

import "github.com/lcamplin/tpsh/cmd"

func main() {
	cmd.Execute()
}
