// cmd/wscript/cmd_detect.go
//
// ROLE: `wscript detect` — show the dialect scores for a file and the mode
// the pipeline would pick for it.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

var detectCmd = &cobra.Command{
	Use:   "detect <file>",
	Short: "Report the language dialect heuristics for a script file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDetect,
}

func runDetect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}
	conf := wscript.DetectDialect(string(data))
	mode := conf.Mode()
	if m := wscript.GuessModeFromFilename(args[0]); m != wscript.MixedMode {
		mode = m
	}

	fmt.Printf("%s  c=%d cpp=%d ts=%d\n", paint(styleMuted, "scores"), conf.C, conf.CPP, conf.TS)
	fmt.Printf("%s  %s (content %s, extension %s)\n",
		paint(styleMuted, "mode  "),
		paint(styleOK, mode.String()),
		conf.Mode(), wscript.GuessModeFromFilename(args[0]))
	return nil
}
