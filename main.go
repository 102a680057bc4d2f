package main

import "github.com/deploymenttheory/go-multiboot/cmd"

func main() {
	cmd.Execute()
}
