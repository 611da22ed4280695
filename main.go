package main

import "github.com/mfadhilr/office-management/cmd"

func main() {
	cmd.Execute()
}
