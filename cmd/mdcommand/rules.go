package main

import (
	"fmt"

	mdcommand "github.com/alnah/go-mdcommand"
)

// runRules prints the active command vocabulary, built-in rules first and
// then any rules from the config file.
func runRules(args []string, env *Environment) error {
	flags, err := parseRulesFlags(args, env.Stdout)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(flags.common.config, loadEnvConfig(), env)
	if err != nil {
		return err
	}
	custom, err := cfg.CompileRules()
	if err != nil {
		return err
	}

	conv, err := mdcommand.NewConverter(mdcommand.WithRules(custom...))
	if err != nil {
		return err
	}
	defer func() { _ = conv.Close() }()

	rules := conv.Rules()
	writeRulesTable(env.Stdout, rules)
	if !flags.common.quiet {
		fmt.Fprintf(env.Stdout, "\n%d rule(s), %d from config. Line rules are tried in order; the first match wins.\n",
			len(rules), len(custom))
	}
	return nil
}
