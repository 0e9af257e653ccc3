// Package main 提供 lanlink 命令行入口
package main

import (
	"fmt"
	"os"

	"github.com/dep2p/go-lanlink"
)

var (
	version   = ""
	commit    = ""
	buildDate = ""
)

// go build -ldflags "-X main.version=v0.1.0 -X main.commit=$(git rev-parse --short HEAD) -X 'main.buildDate=$(date +%Y-%m-%d)'" -o lanlink ./cmd/lanlink

func main() {
	if commit != "" {
		lanlink.GitCommit = commit
	}
	if buildDate != "" {
		lanlink.BuildDate = buildDate
	}
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "错误: %v\n", err)
		os.Exit(1)
	}
}
