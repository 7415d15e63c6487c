package cookies

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	netscapeHeader  = "# Netscape HTTP Cookie File"
	httpOnlyPrefix  = "#HttpOnly_"
	netscapeColumns = 7
)

// ParseNetscape reads Netscape-format cookies from r, keeping those that
// apply to domain (all cookies when domain is empty). Comment lines are
// skipped except for the #HttpOnly_ prefix; malformed and expired lines
// are dropped.
func ParseNetscape(r io.Reader, domain string) ([]Cookie, error) {
	now := time.Now()
	var cookies []Cookie

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != netscapeColumns {
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			continue
		}
		if !matchesDomain(fields[0], domain) {
			continue
		}
		c := Cookie{
			Name:     fields[5],
			Value:    fields[6],
			Domain:   fields[0],
			Path:     fields[2],
			Secure:   strings.EqualFold(fields[3], "TRUE"),
			HttpOnly: httpOnly,
		}
		if expiry > 0 {
			c.Expiry = time.Unix(expiry, 0)
			if c.Expiry.Before(now) {
				continue
			}
		}
		cookies = append(cookies, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// ReadNetscapeFile opens filePath and parses it with ParseNetscape.
func ReadNetscapeFile(filePath, domain string) ([]Cookie, error) {
	f, err := os.Open(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("error: %w: %s", ErrCookieFileNotFound, filePath)
		}
		return nil, fmt.Errorf("error: cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()
	return ParseNetscape(f, domain)
}

// WriteNetscape writes cookies to w in Netscape format, header included.
func WriteNetscape(w io.Writer, cookies []Cookie) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	fmt.Fprintln(bw, "# This file was generated by warpfetch. Edit at your own risk.")
	fmt.Fprintln(bw)
	for _, c := range cookies {
		domain := c.Domain
		if c.HttpOnly {
			domain = httpOnlyPrefix + domain
		}
		var expiry int64
		if !c.Session() {
			expiry = c.Expiry.Unix()
		}
		path := c.Path
		if path == "" {
			path = "/"
		}
		fmt.Fprintf(bw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			domain,
			netscapeBool(c.IncludeSubdomains()),
			path,
			netscapeBool(c.Secure),
			expiry,
			c.Name,
			c.Value,
		)
	}
	return bw.Flush()
}

// SaveNetscapeFile replaces filePath with cookies in Netscape format.
// The file is written next to its destination and renamed into place.
func SaveNetscapeFile(filePath string, cookies []Cookie) error {
	dir := filepath.Dir(filePath)
	tmp, err := os.CreateTemp(dir, ".cookiejar-*")
	if err != nil {
		return fmt.Errorf("error: cannot create cookie jar: %w", err)
	}
	tmpName := tmp.Name()
	if err := WriteNetscape(tmp, cookies); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("error: cannot write cookie jar: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error: cannot write cookie jar: %w", err)
	}
	if err := os.Rename(tmpName, filePath); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("error: cannot replace cookie jar: %w", err)
	}
	return nil
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}
