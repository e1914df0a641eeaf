package main

import (
	"github.com/robotalks/feedlink/pkg/cli/sh"
)

func main() {
	sh.Main()
}
