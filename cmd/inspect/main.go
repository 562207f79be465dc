package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/danielpatrickdp/newsrag/internal/audit"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the audit SQLite mirror")
	last := flag.Int("last", 20, "show N most recent records")
	id := flag.String("id", "", "show single record detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect --db path/to/audit.db [--last N] [--id record-id] [--json]")
		os.Exit(2)
	}

	store, err := audit.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *id != "" {
		err = runDetailMode(store, *id, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

func runListMode(store *audit.Store, last int, jsonOut bool) error {
	records, err := store.List(last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no audit records found")
		return nil
	}

	if jsonOut {
		return printJSON(records)
	}

	fmt.Printf("%-10s  %-24s  %7s  %5s  %-40s  %s\n",
		"ID", "Time", "Elapsed", "Cites", "Question", "Notes")
	fmt.Printf("%-10s+-%-24s+-%7s+-%5s+-%-40s+-%s\n",
		"----------", "------------------------", "-------", "-----",
		"----------------------------------------", "--------------------")

	// store returns newest first; print chronological
	for i := len(records) - 1; i >= 0; i-- {
		r := records[i]
		notes := r.Notes
		if notes == "" {
			notes = "—"
		}
		fmt.Printf("%-10s  %-24s  %5dms  %5d  %-40s  %s\n",
			shortID(r.ID), r.TS, r.ElapsedMS, len(r.Citations),
			clip(r.Question, 40), clip(notes, 60))
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(store *audit.Store, id string, jsonOut bool) error {
	rec, err := store.Get(id)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(rec)
	}

	fmt.Printf("ID:         %s\n", rec.ID)
	fmt.Printf("Time:       %s\n", rec.TS)
	fmt.Printf("Elapsed:    %dms\n", rec.ElapsedMS)
	fmt.Printf("Model:      %s\n", rec.Model)
	fmt.Printf("Question:   %s\n", rec.Question)
	if len(rec.Targets) > 0 {
		fmt.Printf("Targets:    %s\n", strings.Join(rec.Targets, ", "))
	}
	fmt.Printf("Ctx Hash:   %s\n", rec.ContextHash)
	fmt.Printf("Answer:\n%s\n", indent(rec.Answer))
	if rec.Notes != "" {
		fmt.Printf("Notes:      %s\n", rec.Notes)
	}

	if len(rec.Retrieved) > 0 {
		fmt.Printf("\nRetrieved:\n")
		for _, d := range rec.Retrieved {
			fmt.Printf("  %-12s %-6s %s\n", d.ID, d.Ticker, clip(d.Title, 60))
		}
	}
	if len(rec.Citations) > 0 {
		fmt.Printf("\nCitations:\n")
		for i, c := range rec.Citations {
			fmt.Printf("  %d. %s — %s (%s)\n", i+1, c.Title, c.Link, c.Ticker)
		}
	}
	return nil
}

// #endregion detail-mode

// #region output

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func clip(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = "  " + lines[i]
	}
	return strings.Join(lines, "\n")
}

// #endregion output
