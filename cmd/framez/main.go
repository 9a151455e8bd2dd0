// Command framez is the terminal client.
package main

import "framez/internal/cli"

func main() {
	cli.Execute()
}
