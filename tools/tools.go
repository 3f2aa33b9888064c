//go:build tools

package tools

import (
	_ "github.com/go-task/task/v3/cmd/task"
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/google/addlicense"
	_ "github.com/oligot/go-mod-upgrade"
	_ "gotest.tools/gotestsum"
)
