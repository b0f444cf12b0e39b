package main

import "asset-bundler/cmd"

func main() {
	cmd.Execute()
}
