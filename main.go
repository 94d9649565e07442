package main

import "github.com/inventory-sim/inventory-sim/cmd"

func main() {
	cmd.Execute()
}
