package main

import (
	"github.com/rubiojr/cdelta/cmd"
	_ "github.com/rubiojr/cdelta/transform/arraydim"
)

var version = "v0.1.0"

func main() {
	cmd.Execute(version)
}
