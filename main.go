package main

import "github.com/ethanolivertroy/version-checker/cmd"

func main() {
	cmd.Execute()
}
