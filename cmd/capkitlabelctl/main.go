// Command capkitlabelctl is a thin CLI front end over capkit/mac: it
// parses flags, loads a label configuration document, and dispatches
// to validate/apply/verify/remove/show. It exits 0 on success and 1
// when the command fails or at least one label fails.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/freebsdkit/capkit/ferr"
	"github.com/freebsdkit/capkit/mac"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("capkitlabelctl", flag.ContinueOnError)
	configPath := fs.String("config", "", "path to the label configuration document")
	overwrite := fs.Bool("overwrite", false, "allow apply to overwrite an existing label")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	rest := fs.Args()
	if len(rest) != 1 || *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: capkitlabelctl -config FILE {validate|apply|verify|remove|show}")
		return 1
	}

	cfg, err := mac.LoadConfig(*configPath)
	if err != nil {
		logrus.Errorf("load config: %s", err)
		return 1
	}

	switch rest[0] {
	case "validate":
		if err := mac.ValidateAll(cfg); err != nil {
			logrus.Errorf("validate: %s", err)
			return 1
		}
		return 0

	case "apply":
		results, err := mac.Apply(cfg, *overwrite)
		if err != nil {
			logrus.Errorf("apply: %s", err)
			return 1
		}
		failed := false
		for _, r := range results {
			if r.Err != nil {
				logrus.Errorf("apply %s: %s", r.Path, r.Err)
				failed = true
			}
		}
		return exitCode(failed)

	case "verify":
		comparisons, err := mac.Verify(cfg)
		if err != nil {
			logrus.Errorf("verify: %s", err)
			return 1
		}
		failed := false
		for _, c := range comparisons {
			if c.Err != nil {
				logrus.Errorf("verify %s: %s", c.Path, c.Err)
				failed = true
				continue
			}
			for _, k := range c.Keys {
				if k.Comparison != mac.ComparisonMatch {
					failed = true
				}
				fmt.Printf("%s %s %s\n", c.Path, k.Key, comparisonLabel(k.Comparison))
			}
		}
		return exitCode(failed)

	case "remove":
		if err := mac.Remove(cfg); err != nil {
			logrus.Errorf("remove: %s", err)
			return 1
		}
		return 0

	case "show":
		results, err := mac.Show(cfg)
		if err != nil {
			logrus.Errorf("show: %s", err)
			return 1
		}
		failed := false
		for _, r := range results {
			if r.Err != nil {
				var fe *ferr.Error
				if errors.As(r.Err, &fe) && fe.Kind == ferr.NotFound {
					fmt.Printf("%s: missing label\n", r.Path)
				} else {
					fmt.Printf("%s: %s\n", r.Path, r.Err)
				}
				failed = true
				continue
			}
			for k, v := range r.Map {
				fmt.Printf("%s %s=%s\n", r.Path, k, v)
			}
		}
		return exitCode(failed)
	}

	fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", rest[0])
	return 1
}

func exitCode(failed bool) int {
	if failed {
		return 1
	}
	return 0
}

func comparisonLabel(c mac.Comparison) string {
	switch c {
	case mac.ComparisonMatch:
		return "match"
	case mac.ComparisonMissingKey:
		return "missing-key"
	case mac.ComparisonExtraKey:
		return "extra-key"
	case mac.ComparisonValueMismatch:
		return "value-mismatch"
	}
	return "unknown"
}
