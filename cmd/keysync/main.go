package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errOutOfSync) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
