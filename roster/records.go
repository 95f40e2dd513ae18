/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package roster reads and writes player coverage records, one player per
// line:
//
//	/players/A/AbcdEf00.htm: atl-buf,atl-car,crd-den
//
// and persists them to a local file, an S3 object or a Redis keyspace.
package roster

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/mikeb26/franchise-cover/cover"
	"github.com/mikeb26/franchise-cover/league"
)

const (
	RecordSep     = ": "
	ConnectionSep = ","
)

// Parse reads every record from r. Any malformed line aborts the whole load
// with a *league.InvalidInputError naming the line. Blank lines are skipped,
// connection order is irrelevant, a repeated player id merges its sets and a
// player with an empty list ("id: ") is kept with an empty set.
func Parse(r io.Reader) (cover.Players, error) {
	players := make(cover.Players)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		// only the line ending is stripped so that "id: " keeps its separator
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		id, conns, err := parseRecord(line)
		if err != nil {
			return nil, &league.InvalidInputError{Line: lineNum, Msg: err.Error()}
		}
		players.Add(id, conns...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("roster.parse: reading line %d: %w", lineNum+1, err)
	}

	return players, nil
}

func parseRecord(line string) (cover.PlayerID, []league.Connection, error) {
	parts := strings.Split(line, RecordSep)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("want exactly one %q separator in %q", RecordSep, line)
	}
	id := strings.TrimSpace(parts[0])
	if id == "" {
		return "", nil, fmt.Errorf("empty player id in %q", line)
	}

	var conns []league.Connection
	for _, tok := range strings.Split(parts[1], ConnectionSep) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		if strings.ContainsAny(tok, " \t") {
			return "", nil, fmt.Errorf("connection %q contains whitespace", tok)
		}
		conns = append(conns, league.Connection(tok))
	}
	return cover.PlayerID(id), conns, nil
}

// Write emits players sorted by id with each connection list sorted.
// Players with no connections are omitted; they cover nothing.
func Write(w io.Writer, players cover.Players) error {
	bw := bufio.NewWriter(w)
	for _, id := range players.IDs() {
		conns := players[id]
		if len(conns) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(bw, "%s%s%s\n", id, RecordSep,
			strings.Join(conns.Strings(), ConnectionSep)); err != nil {
			return err
		}
	}
	return bw.Flush()
}
