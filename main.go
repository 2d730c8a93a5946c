package main

import "github.com/ValentinKolb/alib/cmd"

func main() {
	cmd.Execute()
}
