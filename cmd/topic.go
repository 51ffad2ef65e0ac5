package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/etnz/stocklots/docs"
	"github.com/etnz/stocklots/renderer"
	"github.com/google/subcommands"
)

type topicCmd struct{}

func (*topicCmd) Name() string     { return "topic" }
func (*topicCmd) Synopsis() string { return "show documentation" }
func (*topicCmd) Usage() string {
	return `topic [<topic>...]

  Shows documentation for the given topics, or the list of topics. The topic
  '*' shows every topic.
`
}

func (c *topicCmd) SetFlags(f *flag.FlagSet) {}

func (c *topicCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		index, err := topicIndex()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(index)
		return subcommands.ExitSuccess
	}

	doc, err := docs.GetTopics(f.Args()...)
	if errors.Is(err, fs.ErrNotExist) {
		all, _ := docs.GetAllTopics()
		return usageError(f, fmt.Sprintf("%v, topics are readme, %s", err, strings.Join(all, ", ")))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(doc)
	return subcommands.ExitSuccess
}

// topicIndex renders the readme topic followed by every other topic.
func topicIndex() (string, error) {
	names, err := docs.GetAllTopics()
	if err != nil {
		return "", err
	}
	names = append([]string{"readme"}, names...)
	titles := make([]string, len(names))
	for i, name := range names {
		if titles[i], err = docs.Title(name); err != nil {
			return "", err
		}
	}
	return renderer.Topics(names, titles), nil
}
