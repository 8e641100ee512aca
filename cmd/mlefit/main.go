// Command mlefit fits the Gaussian linear model by Fisher scoring and prints
// the coefficient table next to the closed-form least-squares solution.
//
//	mlefit synth --n 100 --beta 2.5,1.5,-0.8 --sigma 1.2 --seed 12345
//	mlefit fit --csv data.csv --header --plot trace.png
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
