package main

import "github.com/youruser/mockupapp/internal/cli"

func main() {
	cli.Execute()
}
