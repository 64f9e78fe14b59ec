// Command enumtag generates payload-free tag enumerations for Go sum types.
//
// Typical use is a go:generate line next to the sum type:
//
//	//go:generate go run github.com/teranos/enumtag/cmd/enumtag
package main

import (
	"os"

	"github.com/teranos/enumtag/cmd/enumtag/commands"
)

func main() {
	os.Exit(commands.Execute())
}
