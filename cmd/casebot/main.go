// casebot matches chat requests to UI test cases and dispatches them to GitHub Actions.
//
// Usage:
//
//	casebot serve
//	casebot simulate
//	casebot search <query...>
//	casebot dispatch <path>
//	casebot list
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
