package main

import (
	"os"
)

func main() {
	root, s := newRootCmd()
	err := root.Execute()
	s.close()
	if err != nil {
		os.Exit(1)
	}
}
