// Javaheaders extracts the header comments of Java source files.
package main

import "github.com/albertocavalcante/srcheaders/cmd/javaheaders/internal/cli"

func main() {
	cli.Execute()
}
