package main

import (
	"github.com/alecthomas/kong"

	"github.com/forkful/forkful-backend/cmd"
)

func main() {
	ctx := kong.Parse(&cmd.CLI, kong.Name("forkful"), kong.Description("Forkful is a recipe publishing and shopping list service."))
	err := ctx.Run(&cmd.Context{Debug: cmd.CLI.Debug})
	ctx.FatalIfErrorf(err)
}
