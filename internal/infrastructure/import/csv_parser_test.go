package csvimport

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSVParser(t *testing.T) {
	t.Run("Valid UTF-8 CSV", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("name,age\nAlice,30"))

		require.NoError(t, err)
		require.NotNil(t, parser)
	})

	t.Run("UTF-8 BOM is stripped", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\xEF\xBB\xBFCustomerID,Name\nC1,Ann"))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, "CustomerID", parser.Headers()[0])
		assert.True(t, parser.HasHeader("CustomerID"))
	})

	t.Run("UTF-16 input with BOM is transcoded", func(t *testing.T) {
		// "id\nX1\n" encoded as UTF-16LE with BOM
		raw := "\xFF\xFEi\x00d\x00\n\x00X\x001\x00\n\x00"
		parser, err := NewCSVParser(strings.NewReader(raw))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "X1", row.Get("id"))
	})

	t.Run("Empty file returns error", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader(""))

		assert.Nil(t, parser)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("Invalid UTF-8 returns error", func(t *testing.T) {
		_, err := NewCSVParser(strings.NewReader("name\n\x80\x81"))

		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("Custom delimiter", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("a;b\n1;2"), WithDelimiter(';'))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"a", "b"}, parser.Headers())
	})
}

func TestParseHeader(t *testing.T) {
	t.Run("Header names are trimmed", func(t *testing.T) {
		parser, _ := NewCSVParser(strings.NewReader(" OrderID , Quantity\nO1,2"))
		require.NoError(t, parser.ParseHeader())

		assert.Equal(t, []string{"OrderID", "Quantity"}, parser.Headers())
	})

	t.Run("Blank first line is missing header", func(t *testing.T) {
		parser, err := NewCSVParser(strings.NewReader("\n"))
		require.NoError(t, err)

		assert.ErrorIs(t, parser.ParseHeader(), ErrMissingHeader)
	})
}

func TestRequireHeaders(t *testing.T) {
	parser, _ := NewCSVParser(strings.NewReader("CustomerID,Quantity,Extra\nC1,1,x"))
	require.NoError(t, parser.ParseHeader())

	assert.NoError(t, parser.RequireHeaders([]string{"CustomerID", "Quantity"}))

	err := parser.RequireHeaders([]string{"CustomerID", "OrderID", "Tax"})
	var missing *MissingColumnsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"OrderID", "Tax"}, missing.Columns)
	assert.Contains(t, err.Error(), "OrderID, Tax")
}

func TestReadRow(t *testing.T) {
	t.Run("Values are kept raw by default", func(t *testing.T) {
		parser, _ := NewCSVParser(strings.NewReader("name,city\n Ann ,Paris"))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, " Ann ", row.Get("name"))
		assert.Equal(t, "Paris", row.Get("city"))
	})

	t.Run("WithTrimSpace trims values", func(t *testing.T) {
		parser, _ := NewCSVParser(strings.NewReader("name\n Ann "), WithTrimSpace(true))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "Ann", row.Get("name"))
	})

	t.Run("Line numbers follow the source file", func(t *testing.T) {
		input := "id,note\n1,plain\n2,\"two\nlines\"\n3,last"
		parser, _ := NewCSVParser(strings.NewReader(input))
		require.NoError(t, parser.ParseHeader())

		var lines []int
		for {
			row, err := parser.ReadRow()
			if errors.Is(err, io.EOF) {
				break
			}
			require.NoError(t, err)
			lines = append(lines, row.LineNumber)
		}
		assert.Equal(t, []int{2, 3, 5}, lines)
		assert.Equal(t, 3, parser.TotalRows())
	})

	t.Run("Short record fills missing columns with empty values", func(t *testing.T) {
		parser, _ := NewCSVParser(strings.NewReader("a,b,c\n1"))
		require.NoError(t, parser.ParseHeader())

		row, err := parser.ReadRow()
		require.NoError(t, err)
		assert.Equal(t, "1", row.Get("a"))
		assert.Equal(t, "", row.Get("c"))
	})

	t.Run("Malformed quote reports line", func(t *testing.T) {
		parser, _ := NewCSVParser(strings.NewReader("a,b\n1,2\n3,x\"y\"z"))
		require.NoError(t, parser.ParseHeader())

		_, err := parser.ReadRow()
		require.NoError(t, err)
		_, err = parser.ReadRow()

		var recErr *RecordError
		require.ErrorAs(t, err, &recErr)
		assert.Equal(t, 3, recErr.Line)
	})

	t.Run("Invalid UTF-8 after the probe window is rejected", func(t *testing.T) {
		input := "a\n" + strings.Repeat("x\n", encodingProbeSize) + "\xff\n"
		parser, err := NewCSVParser(strings.NewReader(input))
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())

		_, err = parser.ReadAllRows()
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})
}

func TestReadAllRows(t *testing.T) {
	parser, _ := NewCSVParser(strings.NewReader("a,b\n1,2\n,\n\n3,4\n"))
	require.NoError(t, parser.ParseHeader())

	rows, err := parser.ReadAllRows()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "", rows[1].Get("a"))
	assert.Equal(t, 3, rows[1].LineNumber)
	assert.Equal(t, "3", rows[2].Get("a"))
	assert.Equal(t, 5, rows[2].LineNumber)
	assert.Equal(t, 3, parser.TotalRows())
}

func TestTrimPartialRune(t *testing.T) {
	euro := []byte("€") // 3 bytes
	assert.Equal(t, []byte("ab"), trimPartialRune(append([]byte("ab"), euro[:2]...)))
	assert.Equal(t, append([]byte("ab"), euro...), trimPartialRune(append([]byte("ab"), euro...)))
	assert.Equal(t, []byte("abc"), trimPartialRune([]byte("abc")))
}
