// Command courier is the delivery-personnel client: login, area selection,
// order listing and payment marking against the rc-foods backends.
package main

import (
	"fmt"
	"os"

	"github.com/rc-foods/courier-client/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
