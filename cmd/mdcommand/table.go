package main

import (
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	mdcommand "github.com/alnah/go-mdcommand"
)

// writeLogTable prints a conversion log, one row per rewritten line.
func writeLogTable(w io.Writer, log []mdcommand.LogEntry) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Line", "Rule", "Command", "Markdown"})
	for _, e := range log {
		table.Append([]string{strconv.Itoa(e.LineNumber), e.Description, e.Original, e.Transformed})
	}
	table.Render()
}

// writeRulesTable prints the command vocabulary in the order rules are
// tried, with each rule's example and what it becomes.
func writeRulesTable(w io.Writer, rules []mdcommand.Rule) {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"#", "Scope", "Rule", "Example", "Markdown"})
	for i, r := range rules {
		example, output := "-", "-"
		if r.Example != "" {
			example = r.Example
			if out, ok := r.Apply(r.Example); ok {
				output = printable(out)
			}
		}
		table.Append([]string{strconv.Itoa(i + 1), r.Scope.String(), r.Description, example, output})
	}
	table.Render()
}

// printable keeps multi-line output on one table row.
func printable(s string) string {
	return strings.ReplaceAll(s, "\n", `\n`)
}
