package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/bft-labs/assetship/internal/app"
	"github.com/bft-labs/assetship/internal/cliconfig"
	"github.com/bft-labs/assetship/internal/domain"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	failColor = color.New(color.FgRed)
	dimColor  = color.New(color.Faint)
	boldColor = color.New(color.Bold)
)

func printPost(w io.Writer, res domain.PostResult) {
	switch {
	case res.Error != "":
		failColor.Fprintf(w, "✗ %s: %s\n", res.Post, res.Error)
	case res.Failed > 0 || res.Malformed > 0:
		warnColor.Fprintf(w, "! %s: %d migrated, %d failed, %d malformed\n", res.Post, res.Migrated, res.Failed, res.Malformed)
	case res.Found == 0:
		dimColor.Fprintf(w, "· %s: nothing to migrate\n", res.Post)
	default:
		okColor.Fprintf(w, "✓ %s: %d migrated\n", res.Post, res.Migrated)
	}
	for _, a := range res.Assets {
		if a.Error != "" {
			failColor.Fprintf(w, "    #%d %s\n", a.Ordinal, a.Error)
			continue
		}
		dimColor.Fprintf(w, "    #%d %s\n", a.Ordinal, a.URL)
	}
}

func printReport(w io.Writer, r *domain.Report) {
	for _, res := range r.Posts {
		if res.Found == 0 && res.Malformed == 0 && res.Error == "" {
			continue
		}
		printPost(w, res)
	}
	mode := ""
	if r.DryRun {
		mode = " (dry run)"
	}
	boldColor.Fprintf(w, "\n%s%s: ", r.Profile, mode)
	fmt.Fprintf(w, "%d posts, ", len(r.Posts))
	okColor.Fprintf(w, "%d migrated", r.Migrated)
	fmt.Fprint(w, ", ")
	printCount(w, failColor, r.Failed, "failed")
	fmt.Fprint(w, ", ")
	printCount(w, warnColor, r.Malformed, "malformed")
	fmt.Fprintf(w, ", %d skipped\n", r.Skipped)
}

func printCount(w io.Writer, c *color.Color, n int, label string) {
	if n == 0 {
		fmt.Fprintf(w, "%d %s", n, label)
		return
	}
	c.Fprintf(w, "%d %s", n, label)
}

func printRemaining(w io.Writer, kind string, rem []app.Remaining) {
	total, posts := 0, 0
	for _, r := range rem {
		switch {
		case r.Err != nil:
			failColor.Fprintf(w, "✗ %s: %v\n", r.Post, r.Err)
			continue
		case r.Located == 0 && r.Malformed == 0 && r.Parsed == 0:
			continue
		}
		total += r.Located
		if r.Located > 0 {
			posts++
		}
		line := fmt.Sprintf("%s: %d remaining", r.Post, r.Located)
		if r.Malformed > 0 {
			line += fmt.Sprintf(", %d malformed", r.Malformed)
		}
		if r.Mismatch() {
			warnColor.Fprintf(w, "! %s (parser sees %d)\n", line, r.Parsed)
			continue
		}
		fmt.Fprintf(w, "· %s\n", line)
	}
	if total == 0 {
		okColor.Fprintf(w, "%s: nothing left to migrate\n", kind)
		return
	}
	boldColor.Fprintf(w, "%s: %d regions left in %d posts\n", kind, total, posts)
}

func printDoctor(w io.Writer, statuses []app.ToolStatus, cfg cliconfig.Config, cfgErr error) {
	boldColor.Fprintln(w, "Tools")
	for _, st := range statuses {
		if st.OK() {
			okColor.Fprintf(w, "  ✓ %-8s", st.Name)
			dimColor.Fprintf(w, " %s (%s)\n", st.Version, st.Path)
			continue
		}
		failColor.Fprintf(w, "  ✗ %-8s %v\n", st.Name, st.Err)
	}

	boldColor.Fprintln(w, "Bucket")
	if cfgErr != nil {
		failColor.Fprintf(w, "  ✗ %v\n", cfgErr)
		return
	}
	okColor.Fprintf(w, "  ✓ %s", cfg.Bucket)
	dimColor.Fprintf(w, " at %s, public %s\n", cfg.EndpointURL, cfg.PublicURL)
}
