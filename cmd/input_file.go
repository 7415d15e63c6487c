package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"
)

var (
	ErrInputFileNotFound   = errors.New("input file not found")
	ErrInputFilePermission = errors.New("permission denied reading input file")
	// ErrInputFileEmpty means every line was blank or a comment.
	ErrInputFileEmpty = errors.New("input file contains no valid URLs")
)

// InputFileError ties a list-file failure to the file it came from.
type InputFileError struct {
	Path string
	Err  error
}

func NewInputFileError(path string, err error) *InputFileError {
	return &InputFileError{Path: path, Err: err}
}

func (e *InputFileError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Path)
}

func (e *InputFileError) Unwrap() error { return e.Err }

// ParseResult is the content of a URL list file.
type ParseResult struct {
	URLs []string
	// SkippedLines counts comment lines.
	SkippedLines int
	TotalLines   int
}

// ParseInputFile reads the URL list at filePath, one URL per line.
// Surrounding whitespace is trimmed and blank lines and lines starting
// with # are skipped. Inner whitespace is left for the engine to normalize.
func ParseInputFile(fs afero.Fs, filePath string) (*ParseResult, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return nil, classifyOpenError(filePath, err)
	}
	defer f.Close()

	result := &ParseResult{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		result.TotalLines++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case line[0] == '#':
			result.SkippedLines++
		default:
			result.URLs = append(result.URLs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, NewInputFileError(filePath, err)
	}
	if len(result.URLs) == 0 {
		return result, NewInputFileError(filePath, ErrInputFileEmpty)
	}
	return result, nil
}

func classifyOpenError(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		err = ErrInputFileNotFound
	case os.IsPermission(err):
		err = ErrInputFilePermission
	}
	return NewInputFileError(path, err)
}
