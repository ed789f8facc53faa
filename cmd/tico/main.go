// Copyright © 2018 One Concern

package main

import "github.com/oneconcern/tico/cmd/tico/cmd"

func main() {
	cmd.Execute()
}
