// Command blobidx builds and queries indexes over an object store.
package main

import (
	"os"

	"github.com/koustreak/blobidx/cmd/blobidx/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
