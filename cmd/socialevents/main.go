package main

import (
	"os"

	"github.com/mongodb/grip"
	"github.com/urfave/cli"
)

const envFileFlagName = "env-file"

func main() {
	grip.EmergencyFatal(buildApp().Run(os.Args))
}

func buildApp() *cli.App {
	app := cli.NewApp()
	app.Name = "socialevents"
	app.Usage = "community events HTTP service"
	app.Flags = envFileFlags()
	app.Action = runServe

	app.Commands = []cli.Command{
		serve(),
		migrate(),
	}
	return app
}

func envFileFlags(flags ...cli.Flag) []cli.Flag {
	return append(flags, cli.StringSliceFlag{
		Name:  envFileFlagName,
		Usage: "dotenv file to load before reading the environment (repeatable, defaults to .env)",
	})
}

// envFiles merges the files given to the command and to the app, each file
// once. At the top level both lookups resolve to the same flag set, so only
// subcommands consult the global value.
func envFiles(c *cli.Context) []string {
	files := c.StringSlice(envFileFlagName)
	if c.Parent() != nil {
		files = append(files, c.GlobalStringSlice(envFileFlagName)...)
	}
	seen := make(map[string]struct{}, len(files))
	out := make([]string, 0, len(files))
	for _, f := range files {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
