// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/flamekit/flamekit/cmd/flamekit"

func main() {
	cmd.Execute()
}
