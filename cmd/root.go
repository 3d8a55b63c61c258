package cmd

type Context struct {
	Debug bool
}

var CLI struct {
	Debug bool `help:"Enable debug logging"`

	Serve   ServeCmd   `cmd:"" default:"1"                          help:"Run the API server"`
	Migrate MigrateCmd `cmd:"" help:"Apply database migrations"`
	Seed    SeedCmd    `cmd:"" help:"Load the tag and ingredient catalog"`
}
