package main

import "github.com/nikogura/ats-cv/cmd"

func main() {
	cmd.Execute()
}
