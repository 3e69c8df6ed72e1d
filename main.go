package main

import (
	"fmt"
	"os"
	"strings"

	"postboard/cli"
)

const cliVersion = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		cli.PrintHelp()
		os.Exit(1)
	}

	cmd := strings.ToLower(os.Args[1])
	switch cmd {
	case "version":
		fmt.Printf("postboard version %s\n", cliVersion)
	default:
		cli.HandleCommand(os.Args[1:])
	}
}
