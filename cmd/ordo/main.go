// Command ordo generates liturgical calendars and matches them against the
// Lectionary.
//
// Usage:
//
//	ordo generate --start 2025 --end 2026 --out calendar.csv
//	ordo import --lectionary data/lectionary.csv
//	ordo map --start 2025 --out mapping.csv --store
//	ordo check-date 2025-01-26
package main

import "github.com/zapponejosh/ordo-lectionary/internal/cli"

func main() {
	cli.Execute()
}
