package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// encodingProbeSize is how much of the input is checked for valid UTF-8 up front
const encodingProbeSize = 4096

// CSVParser reads a header row followed by data records.
// A leading byte order mark is consumed: UTF-8 BOMs are dropped and UTF-16
// input is transcoded to UTF-8. Input without a BOM is passed through unchanged.
type CSVParser struct {
	delimiter  rune
	lazyQuotes bool
	trimSpace  bool
	headerMap  map[string]int
	headers    []string
	totalRows  int
	reader     *csv.Reader
}

// ParserOption is a functional option for CSVParser configuration
type ParserOption func(*CSVParser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *CSVParser) {
		p.delimiter = d
	}
}

// WithLazyQuotes enables lazy quote handling
func WithLazyQuotes(lazy bool) ParserOption {
	return func(p *CSVParser) {
		p.lazyQuotes = lazy
	}
}

// WithTrimSpace trims surrounding whitespace from field values.
// Header names are always trimmed.
func WithTrimSpace(trim bool) ParserOption {
	return func(p *CSVParser) {
		p.trimSpace = trim
	}
}

// NewCSVParser creates a new CSV parser from a reader
func NewCSVParser(r io.Reader, opts ...ParserOption) (*CSVParser, error) {
	parser := &CSVParser{
		delimiter: ',',
		headerMap: make(map[string]int),
	}
	for _, opt := range opts {
		opt(parser)
	}

	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))
	buffered := bufio.NewReaderSize(decoded, encodingProbeSize)
	if err := probeUTF8(buffered); err != nil {
		return nil, err
	}

	parser.reader = csv.NewReader(buffered)
	parser.reader.Comma = parser.delimiter
	parser.reader.LazyQuotes = parser.lazyQuotes
	parser.reader.TrimLeadingSpace = parser.trimSpace
	parser.reader.FieldsPerRecord = -1
	parser.reader.ReuseRecord = false

	return parser, nil
}

// probeUTF8 rejects empty input and input whose first block is not UTF-8.
// A rune cut off by the end of the probe window is not treated as invalid.
func probeUTF8(r *bufio.Reader) error {
	content, err := r.Peek(encodingProbeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	if len(content) == encodingProbeSize {
		content = trimPartialRune(content)
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

func trimPartialRune(b []byte) []byte {
	for i := 1; i < utf8.UTFMax && i <= len(b); i++ {
		start := len(b) - i
		if utf8.RuneStart(b[start]) {
			if !utf8.FullRune(b[start:]) {
				return b[:start]
			}
			return b
		}
	}
	return b
}

// ParseHeader reads and parses the header row
func (p *CSVParser) ParseHeader() error {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		header := strings.TrimSpace(h)
		p.headers[i] = header
		if _, dup := p.headerMap[header]; !dup {
			p.headerMap[header] = i
		}
	}
	if len(p.headers) == 1 && p.headers[0] == "" {
		return ErrMissingHeader
	}
	return nil
}

// Headers returns the parsed header names
func (p *CSVParser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *CSVParser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// ValidateHeaders returns the required headers that are absent, in the order given
func (p *CSVParser) ValidateHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// RequireHeaders returns a *MissingColumnsError when any required header is absent
func (p *CSVParser) RequireHeaders(required []string) error {
	if missing := p.ValidateHeaders(required); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}

// Row represents a parsed CSV record with its source line number
type Row struct {
	LineNumber int
	Data       map[string]string
	RawFields  []string
}

// Get returns the value for a column by header name
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// ReadRow reads the next record. It returns io.EOF when the input is exhausted.
func (p *CSVParser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			return nil, &RecordError{Line: parseErr.StartLine, Err: err}
		}
		return nil, fmt.Errorf("failed to read record: %w", err)
	}
	line, _ := p.reader.FieldPos(0)

	row := &Row{
		LineNumber: line,
		Data:       make(map[string]string, len(p.headers)),
		RawFields:  record,
	}
	for i, header := range p.headers {
		value := ""
		if i < len(record) {
			value = record[i]
		}
		if !utf8.ValidString(value) {
			return nil, &RecordError{Line: line, Err: ErrInvalidEncoding}
		}
		if p.trimSpace {
			value = strings.TrimSpace(value)
		}
		if _, seen := row.Data[header]; !seen {
			row.Data[header] = value
		}
	}
	p.totalRows++
	return row, nil
}

// ReadAllRows reads all remaining records. Blank lines never reach it, but a
// record of empty fields is returned like any other and fails coercion later.
func (p *CSVParser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}

// TotalRows returns the number of data records read so far
func (p *CSVParser) TotalRows() int {
	return p.totalRows
}
