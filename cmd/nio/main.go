/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/niokit/cmd/nio/cmd"

func main() {
	cmd.Execute()
}
