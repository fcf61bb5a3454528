package main

import (
	"github.com/NVIDIA/gpu-fleet-probe/pkg/cli"
)

func main() {
	cli.Execute()
}
