package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml")
	week := flag.String("week", "", "Report week: any date (YYYY-MM-DD) inside it")
	from := flag.String("from", "", "Period start date (YYYY-MM-DD)")
	to := flag.String("to", "", "Period end date (YYYY-MM-DD, inclusive)")
	themes := flag.String("themes", "", "Comma-separated theme filter")
	vendors := flag.String("vendors", "", "Comma-separated vendor filter")
	refresh := flag.Bool("refresh", false, "Drop cached snapshots before loading")
	noExport := flag.Bool("no-export", false, "Print the report without writing files")
	watch := flag.Bool("watch", false, "Keep running on the watch_schedule cron")
	suggestRules := flag.Bool("suggest-rules", false, "Draft theme rules for unmatched reasons and exit")
	flag.Parse()

	cfg := LoadConfig(*configPath)

	p, err := NewPipeline(cfg)
	if err != nil {
		log.Fatalf("Failed to set up pipeline: %v", err)
	}
	defer p.Close()

	ctx := context.Background()

	if *refresh {
		if err := p.Cache.Invalidate(); err != nil {
			log.Fatalf("Failed to invalidate cache: %v", err)
		}
		log.Println("cache invalidated, next load refetches every source")
	}

	if *suggestRules {
		if err := runSuggest(ctx, cfg, p); err != nil {
			log.Fatalf("Rule suggestion failed: %v", err)
		}
		return
	}

	f, err := buildFilter(cfg.Location, *week, *from, *to, *themes, *vendors)
	if err != nil {
		log.Fatalf("Invalid filter flags: %v", err)
	}
	opts := runOptions{filter: f, export: !*noExport}

	if *watch {
		if err := RunWatch(ctx, cfg, p, opts); err != nil {
			log.Fatalf("Watch mode error: %v", err)
		}
		return
	}

	if err := runOnce(ctx, cfg, p, opts); err != nil {
		log.Fatalf("Report run failed: %v", err)
	}
}

type runOptions struct {
	filter Filter
	export bool
}

// runOnce loads the dataset, prints the report and, unless exporting is
// disabled, writes the CSV/XLSX pair and posts to Slack when configured.
// When no period flag was given the report covers the most recent week
// present in the data.
func runOnce(ctx context.Context, cfg Config, p Pipeline, opts runOptions) error {
	ds, err := p.Load(ctx)
	if err != nil {
		return err
	}

	f := opts.filter
	if f.Week == "" && f.From.IsZero() && f.To.IsZero() {
		f.Week = ds.LatestWeekLabel()
	}

	r := BuildReport(ds, f, cfg)
	fmt.Print(r.RenderText())

	if !opts.export {
		return nil
	}

	csvPath, xlsxPath, err := ExportReport(r, cfg.OutputDir, cfg.ExportPrefix, time.Now().In(cfg.Location))
	if err != nil {
		return err
	}
	log.Printf("export done csv=%s xlsx=%s", csvPath, xlsxPath)

	if cfg.SlackConfigured() {
		// Delivery failures should not fail the run; the files are on disk.
		if err := DeliverReport(cfg, r, xlsxPath); err != nil {
			log.Printf("slack delivery failed: %v", err)
		}
	}
	return nil
}

func runSuggest(ctx context.Context, cfg Config, p Pipeline) error {
	ds, err := p.Load(ctx)
	if err != nil {
		return err
	}
	draft, err := SuggestRules(ctx, cfg, ds, p.ThemeRules)
	if err != nil {
		return err
	}
	fmt.Println(draft)
	return nil
}

// buildFilter turns the CLI flags into a Filter. The -week flag accepts any
// date inside the wanted week and snaps it to that week's Monday.
func buildFilter(loc *time.Location, week, from, to, themes, vendors string) (Filter, error) {
	if week != "" && (from != "" || to != "") {
		return Filter{}, fmt.Errorf("-week cannot be combined with -from/-to")
	}

	var f Filter
	if week != "" {
		day, err := time.ParseInLocation("2006-01-02", week, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid -week '%s': want YYYY-MM-DD", week)
		}
		f.Week = WeekStartAt(day).Format("2006-01-02")
	}
	if from != "" {
		t, err := time.ParseInLocation("2006-01-02", from, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid -from '%s': want YYYY-MM-DD", from)
		}
		f.From = t
	}
	if to != "" {
		t, err := time.ParseInLocation("2006-01-02", to, loc)
		if err != nil {
			return Filter{}, fmt.Errorf("invalid -to '%s': want YYYY-MM-DD", to)
		}
		f.To = t
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return Filter{}, fmt.Errorf("-to %s is before -from %s", to, from)
	}
	f.Themes = splitList(themes)
	f.Vendors = splitList(vendors)
	return f, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
