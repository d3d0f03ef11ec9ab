//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "fireworks-fb: the framebuffer host requires Linux")
	os.Exit(1)
}
