// Package storage writes scraped entries to a CSV file and reads them back.
//
// The file has a single header row (Race,Horse) followed by one row per entry in
// the order given. Writes create or overwrite the target; there is no atomic-write
// guarantee. The default location is horses_data.csv in the working directory.
package storage
