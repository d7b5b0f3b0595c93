// Command llqverify runs the linked-list queue conformance oracle.
package main

import "github.com/tebeka/atexit"

func main() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}
