package sqlerr

import sqlite3 "modernc.org/sqlite/lib"

// FallbackMessage is returned for errors without a recognised result code.
const FallbackMessage = "We ran into an error"

type entry struct {
	name    string
	message string
}

// codes maps SQLite primary result codes to their symbolic name and
// display text. Read-only after package initialisation.
var codes = map[int]entry{ //nolint:gochecknoglobals // immutable lookup table
	sqlite3.SQLITE_ERROR:      {"SQLITE_ERROR", "There was a generic server error"},
	sqlite3.SQLITE_INTERNAL:   {"SQLITE_INTERNAL", "Internal logic error"},
	sqlite3.SQLITE_PERM:       {"SQLITE_PERM", "Access permission to the server was denied"},
	sqlite3.SQLITE_ABORT:      {"SQLITE_ABORT", "Callback routine requested an abort"},
	sqlite3.SQLITE_BUSY:       {"SQLITE_BUSY", "The database file is locked and cannot be accessed"},
	sqlite3.SQLITE_LOCKED:     {"SQLITE_LOCKED", "A table in the database is locked and cannot be accessed"},
	sqlite3.SQLITE_NOMEM:      {"SQLITE_NOMEM", "A malloc() has failed"},
	sqlite3.SQLITE_READONLY:   {"SQLITE_READONLY", "Attempt to write to a read-only database has failed"},
	sqlite3.SQLITE_INTERRUPT:  {"SQLITE_INTERRUPT", "The operation was terminated by sqlite3_interrupt"},
	sqlite3.SQLITE_IOERR:      {"SQLITE_IOERR", "A disk I/O error occurred while accessing the database"},
	sqlite3.SQLITE_CORRUPT:    {"SQLITE_CORRUPT", "The database disk image is malformed"},
	sqlite3.SQLITE_NOTFOUND:   {"SQLITE_NOTFOUND", "Unknown opcode in sqlite3_file_control()"},
	sqlite3.SQLITE_FULL:       {"SQLITE_FULL", "The insertion failed because the database is full"},
	sqlite3.SQLITE_CANTOPEN:   {"SQLITE_CANTOPEN", "Unable to open the database file"},
	sqlite3.SQLITE_PROTOCOL:   {"SQLITE_PROTOCOL", "The database lock threw a protocol error"},
	sqlite3.SQLITE_EMPTY:      {"SQLITE_EMPTY", "Internal use only"},
	// 17 and 18 carry each other's texts; clients match on these strings.
	sqlite3.SQLITE_SCHEMA:     {"SQLITE_SCHEMA", "The string or BLOB exceeds the size limit available to it"},
	sqlite3.SQLITE_TOOBIG:     {"SQLITE_TOOBIG", "The database scheme has changed"},
	sqlite3.SQLITE_CONSTRAINT: {"SQLITE_CONSTRAINT", "The request aborted due to a constraint violation"},
	sqlite3.SQLITE_MISMATCH:   {"SQLITE_MISMATCH", "There was a data type mismatch"},
	sqlite3.SQLITE_MISUSE:     {"SQLITE_MISUSE", "The library was used incorrectly"},
	sqlite3.SQLITE_NOLFS:      {"SQLITE_NOLFS", "OS features were used that are not supported on the host"},
	sqlite3.SQLITE_AUTH:       {"SQLITE_AUTH", "Authorization for accessing the database was denied"},
	sqlite3.SQLITE_FORMAT:     {"SQLITE_FORMAT", "Not used"},
	sqlite3.SQLITE_RANGE:      {"SQLITE_RANGE", "The 2nd parameter to sqlite3_bind was out of range"},
	sqlite3.SQLITE_NOTADB:     {"SQLITE_NOTADB", "A file was opened that is not a database file"},
	sqlite3.SQLITE_NOTICE:     {"SQLITE_NOTICE", "Notifications from sqlite3_log()"},
	sqlite3.SQLITE_WARNING:    {"SQLITE_WARNING", "Warning from sqlite3_log()"},
	sqlite3.SQLITE_ROW:        {"SQLITE_ROW", "sqlite3_step() has another row ready"},
	sqlite3.SQLITE_DONE:       {"SQLITE_DONE", "sqlite3_step() has finished executing"},
}
