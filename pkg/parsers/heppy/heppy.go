// Package heppy reads generator particles out of Heppy ROOT ntuples.
//
// Go has no native ROOT reader, so the format is only usable when the
// external root-dump tool is on PATH. The tool prints one line per
// branch per entry in the form
//
//	[entry][BranchName]: [v1, v2, ...]
//
// and this package reconstructs particles from the pdgId, motherIndex
// and status branches. Branch names are a configurable prefix plus a
// fixed suffix, defaulting to the Heppy GenPart_* convention.
package heppy

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hepplot/pythiaplotter/pkg/event"
	perrors "github.com/hepplot/pythiaplotter/pkg/errors"
	"github.com/hepplot/pythiaplotter/pkg/graph"
	"github.com/hepplot/pythiaplotter/pkg/parsers"
)

// Format describes the Heppy ROOT ntuple input format.
var Format = &parsers.Format{
	Name:        "heppy",
	Description: "Heppy ROOT ntuples (requires root-dump on PATH)",
	Extensions:  []string{".root"},
	DefaultMode: graph.ModeNode,
	Available:   available,
	Parse:       ParseFile,
}

// DefaultBranchPrefix matches the Heppy generator-particle collection.
const DefaultBranchPrefix = "GenPart_"

const dumpTool = "root-dump"

func available() error {
	if _, err := exec.LookPath(dumpTool); err != nil {
		return perrors.Wrap(perrors.ErrCodeFormatUnavailable, err,
			"%s not found on PATH", dumpTool)
	}
	return nil
}

// ParseFile dumps the ntuple with root-dump and parses the result.
func ParseFile(path string, opts parsers.Options) (*event.Event, error) {
	if err := available(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInputNotFound, err, "cannot open %s", path)
	}

	var out, stderr bytes.Buffer
	cmd := exec.Command(dumpTool, path)
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err,
			"%s failed on %s: %s", dumpTool, path, strings.TrimSpace(stderr.String()))
	}

	ev, err := Parse(&out, opts)
	if err != nil {
		return nil, err
	}
	ev.Source = filepath.Base(path)
	return ev, nil
}

// Parse reads root-dump output. Entries are numbered from zero;
// opts.EventNumber selects one and defaults to the first.
func Parse(r io.Reader, opts parsers.Options) (*event.Event, error) {
	prefix := opts.BranchPrefix
	if prefix == "" {
		prefix = DefaultBranchPrefix
	}
	entry := opts.EventNumber

	branches := map[string][]int{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || !strings.HasPrefix(text, "[") {
			continue
		}
		e, branch, values, ok := splitDumpLine(text)
		if !ok || e != entry || !strings.HasPrefix(branch, prefix) {
			continue
		}
		ints, err := parseIntList(line, values)
		if err != nil {
			return nil, err
		}
		branches[strings.TrimPrefix(branch, prefix)] = ints
	}
	if err := scanner.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeParse, err, "reading dump")
	}

	pdgIDs, ok := branches["pdgId"]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeParse,
			"entry %d has no %spdgId branch", entry, prefix)
	}
	mothers := branches["motherIndex"]
	statuses := branches["status"]

	ev := &event.Event{Number: entry}
	for i, pdgid := range pdgIDs {
		p := &event.Particle{Barcode: i, PDGID: pdgid}
		if i < len(mothers) && mothers[i] >= 0 {
			p.Parents = []int{mothers[i]}
		}
		if i < len(statuses) && statuses[i] == 1 {
			p.Status = event.StatusFinal
		}
		ev.Particles = append(ev.Particles, p)
	}
	return ev, nil
}

// splitDumpLine breaks "[0][GenPart_pdgId]: [25, 5, -5]" into its
// entry number, branch name and value list.
func splitDumpLine(text string) (entry int, branch, values string, ok bool) {
	rest, _ := strings.CutPrefix(text, "[")
	num, rest, found := strings.Cut(rest, "][")
	if !found {
		return 0, "", "", false
	}
	entry, err := strconv.Atoi(num)
	if err != nil {
		return 0, "", "", false
	}
	branch, values, found = strings.Cut(rest, "]:")
	if !found {
		return 0, "", "", false
	}
	return entry, branch, strings.TrimSpace(values), true
}

func parseIntList(line int, values string) ([]int, error) {
	values = strings.Trim(values, "[]")
	if strings.TrimSpace(values) == "" {
		return nil, nil
	}
	parts := strings.Split(values, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, parsers.Numf(line, "branch value", err)
		}
		out = append(out, v)
	}
	return out, nil
}
