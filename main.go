package main

import "github.com/gwu-libraries/elements-migrate/cmd"

func main() {
	cmd.Execute()
}
