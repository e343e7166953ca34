package main

import "github.com/multitoken-labs/m1155/cmd"

func main() {
	cmd.Execute()
}
