package main

import (
	// Import the cmd directory with root.go
	"github.com/redjax/wx/cmd"
)

func main() {
	cmd.Execute()
}
