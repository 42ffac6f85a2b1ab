package main

import "github.com/vietddude/crosspay/internal/cli"

func main() {
	cli.Execute()
}
