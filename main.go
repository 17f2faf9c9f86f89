package main

import "github.com/hmans/bookgraph/cmd"

func main() {
	cmd.Execute()
}
