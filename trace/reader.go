package trace

import (
	"bufio"
	"compress/bzip2"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/maemowong/bpsim/proto/branch"
)

// ErrMalformed is wrapped by every parse error of a trace line.
var ErrMalformed = errors.New("malformed trace line")

// Branch is one resolved conditional branch of a trace.
type Branch struct {
	PC      uint64
	Outcome branch.Outcome
}

//go:generate mockgen -source reader.go -destination reader_mock.go -package trace

// Reader yields branches in program order.
type Reader interface {
	// Next returns the next branch, or io.EOF after the last one.
	Next() (Branch, error)
	Close() error
}

// NewFileReader opens a trace file. The extension picks the decompressor:
// .gz (gzip), .zst (zstd), .bz2 (bzip2), anything else is read as plain text.
func NewFileReader(filename string) (Reader, error) {
	stat, err := os.Stat(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat file: %s, does it exist?", filename)
	}
	if stat.IsDir() {
		return nil, errors.New("given path to trace file is a directory")
	}
	if stat.Size() == 0 {
		return nil, errors.New("given trace file is empty")
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open trace file: %s", filename)
	}

	closers := []io.Closer{file}
	var src io.Reader = file
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".gz":
		gz, err := gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "could not create gzip reader for trace file: %s", filename)
		}
		src = gz
		closers = append([]io.Closer{gz}, closers...)
	case ".zst":
		zr, err := zstd.NewReader(file)
		if err != nil {
			file.Close()
			return nil, errors.Wrapf(err, "could not create zstd reader for trace file: %s", filename)
		}
		src = zr
		closers = append([]io.Closer{closerFunc(func() error { zr.Close(); return nil })}, closers...)
	case ".bz2":
		src = bzip2.NewReader(file)
	}

	r := newTextReader(src)
	r.closers = closers
	return r, nil
}

// NewReader parses a plain-text trace from r. Closing it does not close r.
func NewReader(r io.Reader) Reader {
	return newTextReader(r)
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

// textReader parses lines of the form "<pc> <outcome>":
//
//	0x40a1f4 1
//	40a1f8 0
//
// pc is hexadecimal with an optional 0x prefix, outcome is 0 or 1.
// Blank lines and lines starting with '#' are skipped.
type textReader struct {
	scanner *bufio.Scanner
	line    int
	closers []io.Closer
}

func newTextReader(r io.Reader) *textReader {
	return &textReader{scanner: bufio.NewScanner(r)}
}

func (r *textReader) Next() (Branch, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		return r.parse(text)
	}
	if err := r.scanner.Err(); err != nil {
		return Branch{}, errors.Wrapf(err, "cannot read trace after line %d", r.line)
	}
	return Branch{}, io.EOF
}

func (r *textReader) parse(text string) (Branch, error) {
	fields := strings.Fields(text)
	if len(fields) != 2 {
		return Branch{}, errors.Wrapf(ErrMalformed, "line %d: expected \"<pc> <outcome>\", got %q", r.line, text)
	}

	hex := strings.TrimPrefix(strings.TrimPrefix(fields[0], "0x"), "0X")
	pc, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return Branch{}, errors.Wrapf(ErrMalformed, "line %d: bad pc %q", r.line, fields[0])
	}

	var outcome branch.Outcome
	switch fields[1] {
	case "0":
		outcome = branch.NotTaken
	case "1":
		outcome = branch.Taken
	default:
		return Branch{}, errors.Wrapf(ErrMalformed, "line %d: bad outcome %q", r.line, fields[1])
	}
	return Branch{PC: pc, Outcome: outcome}, nil
}

func (r *textReader) Close() error {
	var err error
	for _, c := range r.closers {
		err = errors.CombineErrors(err, c.Close())
	}
	r.closers = nil
	return err
}
