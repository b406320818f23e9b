package main

import (
	"flag"
	"fmt"
	"io"
)

func cmdKeyaddr(input io.Reader, output io.Writer, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fl := flag.NewFlagSet("", flag.ExitOnError)
	fl.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), `
Print out the hex and bech32 addresses of the actors. When no actor is
given, all of them are listed.
`)
		fl.PrintDefaults()
	}
	cfg.bindFlags(fl)
	var (
		actorFl = fl.String("actor", "", "Name of the actor.")
	)
	fl.Parse(args)

	actors, err := loadActors(cfg.actorsFile())
	if err != nil {
		return err
	}
	names := actors.Names()
	if *actorFl != "" {
		names = []string{*actorFl}
	}
	for _, name := range names {
		addr, err := actors.Address(cfg.Seed, name)
		if err != nil {
			return err
		}
		b32, err := addr.Bech32()
		if err != nil {
			return fmt.Errorf("cannot encode %q address: %s", name, err)
		}
		fmt.Fprintf(output, "%s\t%s\t%s\n", name, addr, b32)
	}
	return nil
}
