package dataset

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
)

// Load reads a delimited file with a header row into a Table.
// The file must be 7-bit text; any byte with the high bit set fails the
// load outright, no fallback encoding is attempted.
func Load(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer file.Close()

	reader := csv.NewReader(newASCIIReader(bufio.NewReader(file)))
	reader.FieldsPerRecord = -1 // length checked against the header in NewTable

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrParse)
	}
	if len(records) == 1 {
		return nil, ErrEmptyTable
	}

	return NewTable(records[0], records[1:])
}

// asciiReader rejects bytes outside the 7-bit range while reading.
type asciiReader struct {
	r      *bufio.Reader
	offset int64
}

func newASCIIReader(r *bufio.Reader) *asciiReader {
	return &asciiReader{r: r}
}

func (a *asciiReader) Read(p []byte) (int, error) {
	n, err := a.r.Read(p)
	for i := 0; i < n; i++ {
		if p[i] >= 0x80 {
			return 0, fmt.Errorf("%w: non-ASCII byte 0x%02x at offset %d", ErrParse, p[i], a.offset+int64(i))
		}
	}
	a.offset += int64(n)
	return n, err
}
