// Command cardiorisk runs the heart-disease risk pipeline from the
// terminal, against the same artifacts the server loads.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
