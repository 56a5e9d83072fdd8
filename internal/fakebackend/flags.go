package fakebackend

import (
	"flag"

	"github.com/dmitrijs2005/padho/internal/flagx"
)

func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-admin-email", "-admin-password", "-l"})

	fs := flag.NewFlagSet("fakebackend", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "listen address")
	fs.StringVar(&cfg.AdminEmail, "admin-email", cfg.AdminEmail, "seeded admin email (empty to skip)")
	fs.StringVar(&cfg.AdminPassword, "admin-password", cfg.AdminPassword, "seeded admin password")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
