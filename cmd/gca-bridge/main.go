// Command gca-bridge runs the OpenAI/Anthropic-compatible bridge server.
package main

import "github.com/samkirk/gca-bridge/internal/cli"

func main() {
	cli.Execute()
}
