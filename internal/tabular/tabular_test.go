package tabular

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/eykd/adsheet-go/internal/domain"
)

func readString(t *testing.T, name, content string) (domain.Table, error) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, name, []byte(content), 0o644))
	return Read(mem, name)
}

func mustCell(t *testing.T, tbl domain.Table, row int, col string) domain.Value {
	t.Helper()
	v, ok := tbl.Cell(row, col)
	require.True(t, ok, "cell %d/%s", row, col)
	return v
}

func TestFormatOf(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"ads.csv", FormatCSV},
		{"ADS.CSV", FormatCSV},
		{"dir/ads.xlsx", FormatXLSX},
		{"macro.xlsm", FormatXLSX},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatOf(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := readString(t, "ads.txt", "a,b\n")

	require.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	var ufe *domain.UnsupportedFormatError
	require.ErrorAs(t, err, &ufe)
	assert.Equal(t, ".txt", ufe.Ext)
}

func TestRead_MissingFile(t *testing.T) {
	_, err := Read(afero.NewMemMapFs(), "nope.csv")

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestRead_CSVInfersNumericColumns(t *testing.T) {
	tbl, err := readString(t, "ads.csv", "Campaign,Budget,Code,Notes\nSpring,10,001,\nSummer,12.5,x7,NA\nFall,,003,\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"Campaign", "Budget", "Code", "Notes"}, tbl.Columns)
	require.Equal(t, 3, tbl.Len())

	assert.True(t, mustCell(t, tbl, 0, "Budget").Equal(domain.Num(10)))
	assert.True(t, mustCell(t, tbl, 1, "Budget").Equal(domain.Num(12.5)))
	assert.True(t, mustCell(t, tbl, 2, "Budget").IsNull())

	assert.True(t, mustCell(t, tbl, 0, "Code").Equal(domain.Str("001")), "mixed column stays text")
	assert.True(t, mustCell(t, tbl, 1, "Notes").IsNull())
	assert.True(t, mustCell(t, tbl, 0, "Campaign").Equal(domain.Str("Spring")))
}

func TestRead_CSVRaggedRows(t *testing.T) {
	tbl, err := readString(t, "ads.csv", "A,B,C\n1\n2,x,y,,\n")
	require.NoError(t, err)

	assert.True(t, mustCell(t, tbl, 0, "B").IsNull())
	assert.True(t, mustCell(t, tbl, 0, "C").IsNull())
	assert.True(t, mustCell(t, tbl, 1, "C").Equal(domain.Str("y")))

	_, err = readString(t, "ads.csv", "A,B\n1,2,3\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2 has 3 fields")
}

func TestRead_CSVHeaderNames(t *testing.T) {
	tbl, err := readString(t, "ads.csv", "\ufeffHeadline,,Headline, Headline \nh1,x,h2,h3\n")
	require.NoError(t, err)

	assert.Equal(t, []string{"Headline", "Unnamed: 1", "Headline.1", "Headline.2"}, tbl.Columns)
}

func TestRead_EmptyFile(t *testing.T) {
	_, err := readString(t, "ads.csv", "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing header row")
}

func TestRead_HeaderOnly(t *testing.T) {
	tbl, err := readString(t, "ads.csv", "Campaign,Budget\n")

	require.NoError(t, err)
	assert.Equal(t, []string{"Campaign", "Budget"}, tbl.Columns)
	assert.Zero(t, tbl.Len())
}

func sampleTable() domain.Table {
	t := domain.NewTable("Campaign", "Headline", "Budget")
	t.AppendRow(domain.Str("Spring"), domain.Str(`Say "hi", friend`), domain.Num(10))
	t.AppendRow(domain.Str("Summer"), domain.Null(), domain.Num(12.5))
	t.AppendRow(domain.Str("Fall"), domain.Str("Line one\nline two"), domain.Null())
	return t
}

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, name := range []string{"out/clean.csv", "out/clean.xlsx"} {
		t.Run(name, func(t *testing.T) {
			mem := afero.NewMemMapFs()
			want := sampleTable()

			require.NoError(t, Write(mem, name, want))
			got, err := Read(mem, name)

			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %+v", got)

			entries, err := afero.ReadDir(mem, "out")
			require.NoError(t, err)
			require.Len(t, entries, 1, "temporary file left behind")
		})
	}
}

func TestWrite_UnsupportedFormat(t *testing.T) {
	err := Write(afero.NewMemMapFs(), "clean.json", sampleTable())

	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestWrite_ReplacesExistingFile(t *testing.T) {
	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "clean.csv", []byte("old,content\n1,2\n"), 0o644))

	require.NoError(t, Write(mem, "clean.csv", sampleTable()))

	got, err := Read(mem, "clean.csv")
	require.NoError(t, err)
	assert.Equal(t, []string{"Campaign", "Headline", "Budget"}, got.Columns)
}

func TestRead_XLSXUsesFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", "Ads"))
	require.NoError(t, f.SetSheetRow("Ads", "A1", &[]any{"Headline", "Max CPC"}))
	require.NoError(t, f.SetSheetRow("Ads", "A2", &[]any{"Fresh looks", 1.25}))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Notes", "A1", &[]any{"Ignored"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "ads.xlsx", buf.Bytes(), 0o644))

	tbl, err := Read(mem, "ads.xlsx")

	require.NoError(t, err)
	assert.Equal(t, []string{"Headline", "Max CPC"}, tbl.Columns)
	assert.True(t, mustCell(t, tbl, 0, "Max CPC").Equal(domain.Num(1.25)))
}

func TestRead_CorruptXLSX(t *testing.T) {
	_, err := readString(t, "ads.xlsx", "not a zip")

	assert.Error(t, err)
}
