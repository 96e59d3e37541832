package main

import "github.com/tatsuyakari1203/markdown-editor-sub001/cmd"

func main() {
	cmd.Execute()
}
