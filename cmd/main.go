package main

import (
	"fmt"
	"os"

	"github.com/stabletoken/custodian/cmd/custodian"
)

func main() {
	rootCmd := custodian.BuildRootCmd()

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
