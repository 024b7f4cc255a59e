package main

import "github.com/GODLiangCY/Blog/cmd"

// version is set at link time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
