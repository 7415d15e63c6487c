package cookies

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between 1601-01-01
// (Chrome's epoch) and the Unix epoch.
const chromeEpochOffsetSeconds int64 = 11_644_473_600

func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

func unixToChrome(unix int64) int64 {
	return (unix + chromeEpochOffsetSeconds) * 1_000_000
}

// storeSchema describes where a browser keeps its cookie columns.
type storeSchema struct {
	browser string
	table   string
	host    string
	expiry  string
	secure  string
	http    string
	extra   string
	toUnix  func(int64) int64
	fromNow func(int64) int64
}

var (
	firefoxSchema = storeSchema{
		browser: "Firefox",
		table:   "moz_cookies",
		host:    "host",
		expiry:  "expiry",
		secure:  "isSecure",
		http:    "isHttpOnly",
		toUnix:  func(v int64) int64 { return v },
		fromNow: func(v int64) int64 { return v },
	}
	// Chrome stores encrypted values in a separate column and leaves
	// value empty; those rows are unusable without the OS keyring.
	chromeSchema = storeSchema{
		browser: "Chrome",
		table:   "cookies",
		host:    "host_key",
		expiry:  "expires_utc",
		secure:  "is_secure",
		http:    "is_httponly",
		extra:   "AND value != ''",
		toUnix:  chromeToUnix,
		fromNow: unixToChrome,
	}
)

// ParseFirefox reads cookies for domain from a Firefox cookies.sqlite
// file. An empty domain returns every unexpired cookie. dbPath should
// point to a copy of the database, see SafeCopy.
func ParseFirefox(dbPath, domain string) ([]Cookie, error) {
	return parseSQLite(dbPath, domain, firefoxSchema)
}

// ParseChrome reads unencrypted cookies for domain from a Chrome Cookies
// file. An empty domain returns every unexpired cookie.
func ParseChrome(dbPath, domain string) ([]Cookie, error) {
	return parseSQLite(dbPath, domain, chromeSchema)
}

func parseSQLite(dbPath, domain string, s storeSchema) ([]Cookie, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
	if err != nil {
		return nil, fmt.Errorf("error: cannot open %s cookie database: %w", s.browser, err)
	}
	defer db.Close()

	query := fmt.Sprintf(`
        SELECT name, value, %[2]s, path, %[3]s, %[4]s, %[5]s
        FROM %[1]s
        WHERE %[3]s > ? %[6]s`, s.table, s.host, s.expiry, s.secure, s.http, s.extra)
	args := []any{s.fromNow(time.Now().Unix())}
	if domain != "" {
		query += fmt.Sprintf(` AND (%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?)`, s.host)
		args = append(args, domain, "."+domain, "%."+domain)
	}
	query += ` ORDER BY path DESC, name ASC`

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query %s cookies: %w", s.browser, err)
	}
	defer rows.Close()

	var cookies []Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			secure, httpOnly        int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &secure, &httpOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan %s cookie row: %w", s.browser, err)
		}
		cookies = append(cookies, Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Expiry:   time.Unix(s.toUnix(expiry), 0),
			Secure:   secure != 0,
			HttpOnly: httpOnly != 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate %s cookie rows: %w", s.browser, err)
	}
	return cookies, nil
}
