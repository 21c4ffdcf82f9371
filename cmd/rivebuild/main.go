// Command rivebuild compiles the Rive runtime and its optional subsystems
// into static archives for a host crate's build script.
package main

import "github.com/goplus/rivebuild/cmd/rivebuild/internal"

func main() {
	internal.Execute()
}
