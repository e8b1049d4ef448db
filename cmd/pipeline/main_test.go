package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestParseOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(nil, io.Discard)
	if err != nil {
		t.Fatalf("parse options: %v", err)
	}
	if opts.mode != modeBackfill || opts.startRound != 0 || opts.endRound != 10 {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
	got := opts.appOptions()
	if !got.NeedBrowser || !got.NeedDatabase || got.DryRun {
		t.Fatalf("unexpected app options for backfill: %+v", got)
	}
}

func TestParseOptions_Validation(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "unknown mode", args: []string{"-mode", "crawl"}, wantErr: "unknown mode"},
		{name: "reversed range", args: []string{"-start-round", "5", "-end-round", "2"}, wantErr: "invalid round range"},
		{name: "negative start", args: []string{"-mode", "discover", "-start-round", "-1"}, wantErr: "invalid round range"},
		{name: "capture without url", args: []string{"-mode", "capture"}, wantErr: "-match-url is required"},
		{name: "load without id", args: []string{"-mode", "load"}, wantErr: "-match-id is required"},
		{name: "transform with bad id", args: []string{"-mode", "transform", "-match-id", "abc"}, wantErr: "must be numeric"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseOptions(tc.args, io.Discard)
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAppOptions_ByMode(t *testing.T) {
	tests := []struct {
		args         []string
		needBrowser  bool
		needDatabase bool
	}{
		{args: []string{"-mode", "discover"}, needBrowser: true},
		{args: []string{"-mode", "capture", "-match-url", "https://www.fotmob.com/match/1"}, needBrowser: true},
		{args: []string{"-mode", "transform", "-match-id", "4506263"}},
		{args: []string{"-mode", "load", "-match-id", "4506263"}, needDatabase: true},
	}

	for _, tc := range tests {
		t.Run(tc.args[1], func(t *testing.T) {
			opts, err := parseOptions(tc.args, io.Discard)
			if err != nil {
				t.Fatalf("parse options: %v", err)
			}
			got := opts.appOptions()
			if got.NeedBrowser != tc.needBrowser || got.NeedDatabase != tc.needDatabase {
				t.Fatalf("unexpected app options: %+v", got)
			}
		})
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, map[string]any{"match_id": 42, "inserted": true}); err != nil {
		t.Fatalf("write json: %v", err)
	}
	got := buf.String()
	if !strings.Contains(got, `"match_id": 42`) || !strings.HasSuffix(got, "}\n") {
		t.Fatalf("unexpected output: %q", got)
	}
}
