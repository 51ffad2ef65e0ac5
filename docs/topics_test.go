package docs_test

import (
	"bufio"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/etnz/stocklots/cmd"
	"github.com/etnz/stocklots/date"
	"github.com/etnz/stocklots/docs"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := docs.GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := docs.GetAllTopics()
	if err != nil {
		t.Fatalf("GetAllTopics() unexpected error: %v", err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}

	if _, err := docs.GetTopic("nothing"); err == nil {
		t.Errorf("GetTopic(nothing) succeeded, want an error")
	}
}

func TestTitle(t *testing.T) {
	testCases := []struct {
		topic, want string
	}{
		{"readme", "stocklots"},
		{"dates", "Dates"},
		{"config", "Configuration"},
	}
	for _, tc := range testCases {
		got, err := docs.Title(tc.topic)
		if err != nil {
			t.Fatalf("Title(%q) unexpected error: %v", tc.topic, err)
		}
		if got != tc.want {
			t.Errorf("Title(%q) = %q, want %q", tc.topic, got, tc.want)
		}
	}
	if _, err := docs.Title("nothing"); err == nil {
		t.Errorf("Title(nothing) succeeded, want an error")
	}
}

// commandLines returns the "$ stocklots ..." lines of the console code blocks of file.
func commandLines(t *testing.T, file string) []string {
	t.Helper()
	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var lines []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || string(fcb.Language(content)) != "console" {
			return ast.WalkContinue, nil
		}
		for i := 0; i < fcb.Lines().Len(); i++ {
			seg := fcb.Lines().At(i)
			line := strings.TrimSpace(string(seg.Value(content)))
			if strings.HasPrefix(line, "$ stocklots ") {
				lines = append(lines, strings.TrimPrefix(line, "$ stocklots "))
			}
		}
		return ast.WalkContinue, nil
	})
	return lines
}

func TestCodeBlocks(t *testing.T) {
	// Examples must use existing commands and flags.
	commands := make(map[string][]string)
	for _, group := range cmd.Commands() {
		for _, c := range group {
			fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
			c.SetFlags(fs)
			fs.VisitAll(func(f *flag.Flag) { commands[c.Name()] = append(commands[c.Name()], f.Name) })
			if _, ok := commands[c.Name()]; !ok {
				commands[c.Name()] = nil
			}
		}
	}

	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	for _, file := range files {
		for _, line := range commandLines(t, file) {
			args := strings.Fields(line)
			flags, ok := commands[args[0]]
			if !ok {
				t.Errorf("%s: unknown command in %q", file, line)
				continue
			}
			for _, arg := range args[1:] {
				if !strings.HasPrefix(arg, "-") {
					continue
				}
				if _, err := date.Parse(arg); err == nil {
					continue // a relative date
				}
				if name := strings.TrimLeft(arg, "-"); !slices.Contains(flags, name) {
					t.Errorf("%s: unknown flag %q in %q", file, arg, line)
				}
			}
		}
	}
}
