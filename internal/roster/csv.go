// Package roster loads the qualified-team roster the tournament is seeded
// from: one CSV of FIFA rankings and one of qualified teams, joined on
// country and ordered by rank.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lmarchant/cupscore/internal/service"
)

// unrankedValue sorts teams missing from the rankings file last.
const unrankedValue = 999

// Load reads the two CSV files and returns the seeding order: every
// qualified team, sorted by FIFA rank ascending.
func Load(rankingsPath, qualifiedPath string) ([]service.SeedTeam, error) {
	rankings, err := readRankings(rankingsPath)
	if err != nil {
		return nil, fmt.Errorf("read rankings: %w", err)
	}

	qualifiedFile, err := os.Open(qualifiedPath)
	if err != nil {
		return nil, err
	}
	defer qualifiedFile.Close()

	roster, err := readQualified(qualifiedFile, rankings)
	if err != nil {
		return nil, fmt.Errorf("read qualified teams: %w", err)
	}
	return roster, nil
}

func readRankings(path string) (map[string]int, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ParseRankings(file)
}

// ParseRankings reads a Country,Rank CSV into a lookup map. A header row is
// detected by a non-numeric rank column and skipped.
func ParseRankings(r io.Reader) (map[string]int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rankings := make(map[string]int)
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected Country,Rank", line)
		}
		country := strings.TrimSpace(record[0])
		rank, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("line %d: bad rank %q", line, record[1])
		}
		rankings[country] = rank
	}
	return rankings, nil
}

func readQualified(r io.Reader, rankings map[string]int) ([]service.SeedTeam, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	var roster []service.SeedTeam
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(record) < 2 {
			return nil, fmt.Errorf("line %d: expected Country,Confederation", line)
		}
		country := strings.TrimSpace(record[0])
		confederation := strings.TrimSpace(record[1])
		if line == 1 && strings.EqualFold(country, "Country") {
			continue
		}

		rank, ok := rankings[country]
		if !ok {
			rank = unrankedValue
		}
		roster = append(roster, service.SeedTeam{
			Country:       country,
			FIFARank:      rank,
			Confederation: confederation,
		})
	}

	sort.SliceStable(roster, func(i, j int) bool { return roster[i].FIFARank < roster[j].FIFARank })
	return roster, nil
}
