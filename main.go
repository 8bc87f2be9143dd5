package main

import "github.com/netassist/netconfig-assist/cmd"

func main() {
	cmd.Execute()
}
