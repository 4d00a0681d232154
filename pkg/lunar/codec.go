package lunar

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// ErrMalformedRow is returned by Decode for rows that are not six
// tab-separated numeric fields.
var ErrMalformedRow = errors.New("malformed data row")

const rowFields = 6

// HeaderInfo fills the provenance line of a data file header.
type HeaderInfo struct {
	ZoneLabel string
	Model     string
}

// Header returns the six comment lines that open every data file.
func (h HeaderInfo) Header() string {
	return "# [1] = year, [2] = month, [3] = day, [4] = lunar phase,\n" +
		"# [5] = label (1 = full, 2 = new), \n" +
		"# [6] = day of week (1 = monday, 7 = sunday) \n" +
		"# \n" +
		fmt.Sprintf("# calculated in %s using the %s ephemeris model.\n", h.ZoneLabel, h.Model) +
		"# \n"
}

// Encode writes the header followed by one tab-separated row per day.
func Encode(w io.Writer, t *YearTable, h HeaderInfo) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(h.Header()); err != nil {
		return err
	}
	for _, r := range t.Days {
		if _, err := fmt.Fprintf(bw, "%d\t%d\t%d\t%f\t%d\t%d\n",
			r.Year, r.Month, r.Day, r.Phase, int(r.Label), r.Weekday); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads a table written by Encode. Comment lines are skipped.
func Decode(r io.Reader) (*YearTable, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	table := &YearTable{}
	for {
		fields, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRow, err)
		}
		line, _ := cr.FieldPos(0)

		rec, err := parseRow(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(table.Days) == 0 {
			table.Year = rec.Year
		} else if rec.Year != table.Year {
			return nil, fmt.Errorf("line %d: %w: year %d in a %d table", line, ErrMalformedRow, rec.Year, table.Year)
		}
		table.Days = append(table.Days, rec)
	}
	if len(table.Days) == 0 {
		return nil, fmt.Errorf("%w: no data rows", ErrMalformedRow)
	}
	return table, nil
}

func parseRow(fields []string) (DayRecord, error) {
	if len(fields) != rowFields {
		return DayRecord{}, fmt.Errorf("%w: %d fields, expected %d", ErrMalformedRow, len(fields), rowFields)
	}

	var ints [rowFields]int
	for i, f := range fields {
		if i == 3 {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return DayRecord{}, fmt.Errorf("%w: field %d: %v", ErrMalformedRow, i+1, err)
		}
		ints[i] = n
	}
	phase, err := strconv.ParseFloat(fields[3], 64)
	if err != nil {
		return DayRecord{}, fmt.Errorf("%w: field 4: %v", ErrMalformedRow, err)
	}

	return DayRecord{
		Year:    ints[0],
		Month:   ints[1],
		Day:     ints[2],
		Phase:   phase,
		Label:   Label(ints[4]),
		Weekday: ints[5],
	}, nil
}
