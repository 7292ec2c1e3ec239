package main

import "github.com/ValentinKolb/inplace/cmd"

func main() {
	cmd.Execute()
}
