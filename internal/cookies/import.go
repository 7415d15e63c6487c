package cookies

import "fmt"

// ImportCookies loads the cookies for domain from the store at path,
// whatever its format. An empty domain imports every cookie, which is
// what a cookie jar wants.
func ImportCookies(path, domain string) ([]Cookie, *CookieSource, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, nil, err
	}
	source := &CookieSource{Path: path, Format: format, Browser: format.String()}

	var cookies []Cookie
	switch format {
	case FormatFirefox:
		cookies, err = importSQLite(path, domain, ParseFirefox)
	case FormatChrome:
		cookies, err = importSQLite(path, domain, ParseChrome)
	case FormatNetscape:
		cookies, err = ReadNetscapeFile(path, domain)
	default:
		return nil, nil, fmt.Errorf("error: unsupported cookie store at %s", path)
	}
	if err != nil {
		return nil, nil, err
	}
	return cookies, source, nil
}

func importSQLite(path, domain string, parse func(string, string) ([]Cookie, error)) ([]Cookie, error) {
	copied, cleanup, err := SafeCopy(path)
	if err != nil {
		return nil, err
	}
	defer cleanup()
	return parse(copied, domain)
}
