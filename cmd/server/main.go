package main

import (
	"context"

	"github.com/alecthomas/kong"
	"github.com/wolfeidau/ndrweb/cmd/server/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Debug   bool             `help:"Enable debug mode."`
		Config  string           `help:"Path to the YAML configuration file." type:"path" env:"NDRWEB_CONFIG"`
		Version kong.VersionFlag `help:"Print version and exit."`

		Serve          commands.ServeCmd          `cmd:"" help:"Start the website and API"`
		Migrate        commands.MigrateCmd        `cmd:"" help:"Apply database migrations"`
		CreateAdmin    commands.CreateAdminCmd    `cmd:"" help:"Create a superuser"`
		CreateUser     commands.CreateUserCmd     `cmd:"" help:"Create a user"`
		CreateOrg      commands.CreateOrgCmd      `cmd:"" help:"Create an organization"`
		CreateSite     commands.CreateSiteCmd     `cmd:"" help:"Create a site in an organization"`
		CreateRecorder commands.CreateRecorderCmd `cmd:"" help:"Create a recorder at a site"`
		Grant          commands.GrantCmd          `cmd:"" help:"Grant a user access to an organization"`
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Name("ndrweb"),
		kong.Description("Web front end for network data recorders."),
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{Debug: cli.Debug, Config: cli.Config, Version: version})
	cmd.FatalIfErrorf(err)
}
