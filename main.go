package main

import (
	"os"

	"github.com/yu-haoyuan/Ego4d-TalkNet-ASD/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
