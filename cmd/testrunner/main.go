package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/lawnchairsociety/relictower/test"
)

func main() {
	serverAddr := flag.String("addr", "localhost:4443", "towerd server address (host:port)")
	verbose := flag.Bool("v", false, "Verbose output - show detailed actions for each test")
	filter := flag.String("filter", "", "Only run scenarios whose name contains this text")
	list := flag.Bool("list", false, "List scenario names and exit")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(test.GetTestNames(), "\n"))
		return
	}

	test.Verbose = *verbose

	fmt.Printf("Climbing against %s (start towerd first)\n\n", *serverAddr)

	results := test.RunFilteredTests(*serverAddr, *filter)
	if len(results) == 0 {
		fmt.Fprintf(os.Stderr, "No scenarios match %q\n", *filter)
		os.Exit(1)
	}
	test.PrintResults(results)

	failed := 0
	for _, result := range results {
		if !result.Passed {
			failed++
		}
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d scenarios failed\n", failed, len(results))
		os.Exit(1)
	}
}
