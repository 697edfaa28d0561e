package main

import cmd "github.com/rohmanhakim/askpdf/internal/cli"

func main() {
	cmd.Execute()
}
