// Package cookies reads and writes the cookie stores behind the
// cookie-file and cookie-jar transfer options.
//
// Netscape text files, Firefox cookies.sqlite and Chrome Cookies
// databases (unencrypted values only) can be read. Cookies are written
// back in Netscape format only.
//
// Cookie values are never logged or formatted into error messages.
package cookies
