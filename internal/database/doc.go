// Package database opens the SQLite database that holds the extraction
// audit trail. Repositories for individual tables live in subpackages.
package database
