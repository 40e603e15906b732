package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/slack-go/slack"
)

// DeliverReport posts the run summary to the configured channel and attaches
// the workbook. Callers treat failures as non-fatal: the local export has
// already succeeded by the time delivery runs.
func DeliverReport(cfg Config, r Report, xlsxPath string) error {
	api := slack.New(cfg.SlackBotToken)
	return deliverReport(api, cfg.SlackChannelID, r, xlsxPath)
}

func deliverReport(api *slack.Client, channelID string, r Report, xlsxPath string) error {
	_, _, err := api.PostMessage(channelID, slack.MsgOptionText(r.SlackSummary(), false))
	if err != nil {
		return fmt.Errorf("posting summary: %w", err)
	}

	if xlsxPath == "" {
		return nil
	}
	fi, err := os.Stat(xlsxPath)
	if err != nil {
		return fmt.Errorf("stating workbook: %w", err)
	}
	_, err = api.UploadFileV2(slack.UploadFileV2Parameters{
		File:           xlsxPath,
		FileSize:       int(fi.Size()),
		Filename:       filepath.Base(xlsxPath),
		Channel:        channelID,
		Title:          "EZS complaints dashboard",
		InitialComment: fmt.Sprintf("Dashboard export for %s", r.PeriodLabel()),
	})
	if err != nil {
		return fmt.Errorf("uploading workbook: %w", err)
	}
	log.Printf("slack delivery done channel=%s file=%s", channelID, filepath.Base(xlsxPath))
	return nil
}

// SlackSummary is the delivery message: the KPI lines plus any fetch
// warnings, so a silent source failure is visible right in the channel.
func (r Report) SlackSummary() string {
	k := r.KPIs()
	var b strings.Builder
	fmt.Fprintf(&b, "EZS complaints report (%s): %d complaints, %d stations",
		r.PeriodLabel(), k.Total, k.UniqueStations)
	if k.TopTheme != "" {
		fmt.Fprintf(&b, "\nTop theme: %s", k.TopTheme)
	}
	if k.TopReason != "" {
		fmt.Fprintf(&b, "\nTop reason: %s", k.TopReason)
	}

	var problems []string
	for _, se := range r.Dataset.SourceErrors {
		problems = append(problems, se.Error())
	}
	problems = append(problems, r.Dataset.Warnings...)
	if len(problems) > 0 {
		fmt.Fprintf(&b, "\nWarnings:\n%s", strings.Join(problems, "\n"))
	}
	return b.String()
}
