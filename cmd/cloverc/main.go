// Command cloverc is the compiler core's CLI entry point. It does not
// contain a lexer or parser -- concrete-syntax handling stays outside this
// module -- so its job here is narrow: report the compiler's own version,
// list the standard library's virtual package surface (from internal/config's
// manifest, cross-checked against the live internal/stdlib.Registry a real
// compilation would use), and otherwise stand as the wiring a front end
// that does own a parser would call into via internal/driver.Compile.
package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/cloverlang/cloverc/internal/config"
	"github.com/cloverlang/cloverc/internal/driver"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "cloverc:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr *os.File) error {
	interactive := isatty.IsTerminal(stderr.Fd())

	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(stdout, "usage: cloverc [--version | --list-stdlib]")
		return nil
	}

	switch args[0] {
	case "--version", "-v":
		fmt.Fprintln(stdout, config.Version)
		return nil

	case "--list-stdlib":
		notice(stderr, interactive, "loading standard library registry...")
		return listStdlib(stdout)
	}

	return fmt.Errorf("unrecognized argument %q (cloverc has no concrete-syntax front end; see internal/driver.Compile for the programmatic entry point)", args[0])
}

// notice prints a one-line interactive progress message only when stderr is
// a real terminal: piped or redirected output stays quiet so scripts don't
// have to filter it out.
func notice(stderr *os.File, interactive bool, msg string) {
	if interactive {
		fmt.Fprintln(stderr, "==>", msg)
	}
}

func listStdlib(stdout *os.File) error {
	_, _, _, _, registry, _, err := driver.New()
	if err != nil {
		return err
	}

	manifest, err := config.ParseStdlibManifest([]byte(config.DefaultStdlibManifest))
	if err != nil {
		return err
	}

	for _, name := range registry.Names() {
		pkg, _ := registry.Package(name)
		documented, _ := manifest.Package(name)

		fmt.Fprintf(stdout, "%s (%d symbols", pkg.Name, len(pkg.Symbols))
		if documented != nil {
			fmt.Fprintf(stdout, ", %d documented", len(documented.Symbols))
		}
		fmt.Fprintln(stdout, ")")
	}
	return nil
}
