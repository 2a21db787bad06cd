package main

import (
	"fmt"
	"os"
)

func main() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "focusdeck failed: %v\n", err)
		os.Exit(1)
	}
}
