package main

import (
	"github.com/immodash/immodash/cmd"
)

func main() {
	cmd.Execute()
}
