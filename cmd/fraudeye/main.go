// Command fraudeye drives a FraudEye backend from the terminal and serves
// the local dashboard API.
package main

import "github.com/raysh454/fraudeye/internal/cli"

func main() {
	cli.Execute()
}
