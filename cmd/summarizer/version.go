package main

import (
	"context"
	"fmt"

	"github.com/a-h/summarizer"
)

type VersionCommand struct {
}

func (c VersionCommand) Run(ctx context.Context) (err error) {
	fmt.Println(summarizer.Version)
	return nil
}
