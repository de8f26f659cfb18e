package main

import (
	"go-31tone/cmd"
)

func main() {
	cmd.Execute()
}
