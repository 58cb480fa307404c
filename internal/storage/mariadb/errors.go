package mariadb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/go-sql-driver/mysql"
)

// errPingTimeout marks a health ping that outlived PingTimeout while the
// caller was still waiting.
var errPingTimeout = errors.New("database ping timed out")

// server error numbers that mean the session is gone rather than the query being wrong
var lostConnectionCodes = map[uint16]struct{}{
	1040: {}, // ER_CON_COUNT_ERROR
	1053: {}, // ER_SERVER_SHUTDOWN
	1152: {}, // ER_ABORTING_CONNECTION
	1158: {}, // ER_NET_READ_ERROR
	1159: {}, // ER_NET_READ_INTERRUPTED
	1160: {}, // ER_NET_ERROR_ON_WRITE
	1161: {}, // ER_NET_WRITE_INTERRUPTED
}

// IsConnectionLost reports whether err means the connection to the server
// dropped or could not be established, as opposed to a failing statement.
func IsConnectionLost(err error) bool {
	if err == nil {
		return false
	}

	switch {
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.EPIPE),
		errors.Is(err, errPingTimeout):
		return true
	case errors.Is(err, context.DeadlineExceeded):
		// a caller's deadline says nothing about the server
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		_, ok := lostConnectionCodes[myErr.Number]
		return ok
	}

	return false
}
