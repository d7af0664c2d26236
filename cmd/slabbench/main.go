// Command slabbench drives multi-goroutine throughput benchmarks against
// the three queue configurations this repository can build: a plain Go
// channel ("system"), queue.Queue with BackendMutex ("core"), and
// queue.Queue with BackendLockFree ("lock-free").
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
