package main

import "github.com/Coxless/wtenv/internal/cmd"

func main() {
	cmd.Execute()
}
