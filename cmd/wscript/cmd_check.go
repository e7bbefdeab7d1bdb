// cmd/wscript/cmd_check.go
//
// ROLE: `wscript check` — batch and watch-mode front-end checking.
//
// Files are checked in parallel, one pipeline run per file, and the process
// exit code reflects whether any file produced errors. With --watch the
// command stays resident and re-checks files as they change on disk.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	wscript "github.com/Elastic-Softworks/worldenv-sub006"
)

var (
	watchFlag bool

	checkCmd = &cobra.Command{
		Use:   "check <file> [file...]",
		Short: "Lex, parse and analyze script files, reporting diagnostics",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCheck,
	}
)

func init() {
	checkCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "stay resident and re-check files on change")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if watchFlag {
		return watchLoop(args)
	}
	bad, err := checkFiles(args)
	if err != nil {
		return err
	}
	if bad > 0 {
		os.Exit(1)
	}
	return nil
}

// checkFiles runs the pipeline over every path in parallel and prints the
// results in argument order. Returns how many files had errors.
func checkFiles(paths []string) (int, error) {
	results := make([]*wscript.FileResult, len(paths))

	g := new(errgroup.Group)
	g.SetLimit(runtime.NumCPU())
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			results[i] = wscript.Run(path, string(data), config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	bad := 0
	for _, fr := range results {
		printResult(fr)
		if fr.HasErrors() {
			bad++
		}
	}
	return bad, nil
}

func printResult(fr *wscript.FileResult) {
	for _, d := range fr.Diagnostics() {
		fmt.Println(renderDiagnostic(fr.Source, fr.Name, d))
	}
	rep := fr.Reporter
	if rep.ErrorCount() == 0 && rep.WarningCount() == 0 {
		fmt.Printf("%s %s  %s\n",
			paint(styleOK, "ok"), fr.Name,
			paint(styleMuted, fmt.Sprintf("[%s] %d symbols, %d checks",
				fr.Mode, fr.Summary.SymbolsFound, fr.Summary.TypesChecked)))
		return
	}
	fmt.Printf("%s %s  %s\n",
		paint(styleError, "fail"), fr.Name,
		paint(styleMuted, fmt.Sprintf("[%s] %d error(s), %d warning(s)",
			fr.Mode, rep.ErrorCount(), rep.WarningCount())))
}

// watchLoop checks everything once, then re-checks individual files as the
// filesystem reports writes. Directories are watched rather than the files
// themselves so editors that replace-on-save keep being tracked.
func watchLoop(paths []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	tracked := make(map[string]string) // absolute path -> display path
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		tracked[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	sorted := make([]string, 0, len(dirs))
	for d := range dirs {
		sorted = append(sorted, d)
	}
	sort.Strings(sorted)
	for _, d := range sorted {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	if _, err := checkFiles(paths); err != nil {
		fmt.Fprintln(os.Stderr, paint(styleError, "error: ")+err.Error())
	}
	fmt.Println(paint(styleMuted, fmt.Sprintf("watching %d file(s); Ctrl+C to stop", len(tracked))))

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			display, ours := tracked[abs]
			if !ours {
				continue
			}
			if _, err := checkFiles([]string{display}); err != nil {
				fmt.Fprintln(os.Stderr, paint(styleError, "error: ")+err.Error())
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(os.Stderr, paint(styleError, "watch error: ")+err.Error())
		}
	}
}
