package mdcommand_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/alnah/go-mdcommand"
)

func ExampleConverter_Transform() {
	conv, err := mdcommand.NewConverter()
	if err != nil {
		log.Fatal(err)
	}
	defer conv.Close()

	md, entries := conv.Transform("heading 1: Notes\nbold this: ship it\n- already Markdown", mdcommand.ModeCommands)
	fmt.Println(md)
	for _, e := range entries {
		fmt.Printf("line %d: %s\n", e.LineNumber, e.Description)
	}
	// Output:
	// # Notes
	// **ship it**
	// - already Markdown
	// line 1: Heading conversion
	// line 2: Bold conversion
}

func ExampleConverter_Convert() {
	conv, err := mdcommand.NewConverter(mdcommand.WithStyle("minimal"))
	if err != nil {
		log.Fatal(err)
	}
	defer conv.Close()

	res, err := conv.Convert(context.Background(), mdcommand.Input{
		Markdown: "heading 1: Report\nlink this: Docs | https://example.com",
		HTMLOnly: true,
	})
	if err != nil {
		log.Fatal(err)
	}
	html := string(res.HTML)
	fmt.Println(strings.Contains(html, "<title>Report</title>"))
	fmt.Println(strings.Contains(html, `<a href="https://example.com">Docs</a>`))
	// Output:
	// true
	// true
}

func ExampleNewRule() {
	todo, err := mdcommand.NewRule(`todo:\s*(?P<task>.*)`, "- [ ] ${task}", "Task conversion")
	if err != nil {
		log.Fatal(err)
	}

	conv, err := mdcommand.NewConverter(mdcommand.WithRules(todo))
	if err != nil {
		log.Fatal(err)
	}
	defer conv.Close()

	md, _ := conv.Transform("todo: write release notes", mdcommand.ModeCommands)
	fmt.Println(md)
	// Output:
	// - [ ] write release notes
}

func ExampleParseMode() {
	mode, _ := mdcommand.ParseMode("off")
	fmt.Println(mode)
	// Output:
	// passthrough
}
