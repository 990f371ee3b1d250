package memory

import "errors"

// errForeignKey mirrors the constraint failure the SQLite backend reports.
var errForeignKey = errors.New("FOREIGN KEY constraint failed")
