package loclog_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/codefolio/pkg/loclog"
)

const (
	testHeader = "commit,file,line,type,length,depth,date,time,timezone,datetime,author\n"

	testLog = testHeader +
		"a1,src/main.js,1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"a1,src/style.css,1,css,12,1,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"b2,src/main.js,2,js,31,2,2024-01-02,05:15:00,+00:00,2024-01-02T05:15:00Z,Ben\n"
)

func TestParse_ScenarioLog(t *testing.T) {
	t.Parallel()

	result, err := loclog.Parse(strings.NewReader(testLog))
	require.NoError(t, err)
	require.Len(t, result.Records, 3)
	assert.Empty(t, result.Skipped)

	first := result.Records[0]
	assert.Equal(t, "a1", first.Commit)
	assert.Equal(t, "src/main.js", first.File)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, "js", first.Type)
	assert.Equal(t, 20, first.Length)
	assert.Equal(t, 0, first.Depth)
	assert.Equal(t, "Ana", first.Author)
	assert.Equal(t, "10:30:00", first.Time)
	assert.True(t, first.Datetime.Equal(time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC)))
	assert.True(t, first.Date.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestParse_DateUsesRowTimezone(t *testing.T) {
	t.Parallel()

	log := testHeader +
		"c3,a.go,1,go,5,0,2024-03-10,23:00:00,-08:00,2024-03-10T23:00:00-08:00,Cy\n"

	result, err := loclog.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	rec := result.Records[0]
	assert.True(t, rec.Date.Equal(time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)))
	assert.Equal(t, 23, rec.Datetime.Hour())
}

func TestParse_ExtraColumnsAndOrderIgnored(t *testing.T) {
	t.Parallel()

	log := "author,extra,datetime,timezone,time,date,depth,length,type,line,file,commit\n" +
		"Ana,x,2024-01-01T10:30:00Z,+00:00,10:30:00,2024-01-01,1,10,js,4,a.js,a1\n"

	result, err := loclog.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	assert.Equal(t, "a.js", result.Records[0].File)
	assert.Equal(t, 4, result.Records[0].Line)
}

func TestParse_MalformedRowsSkipped(t *testing.T) {
	t.Parallel()

	log := testHeader +
		"a1,a.js,one,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"a1,a.js,2,js,20,0,2024-01-01,10:30:00,+00:00,not-a-date,Ana\n" +
		",a.js,3,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"a1,a.js,4,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n"

	result, err := loclog.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Skipped, 3)

	assert.Equal(t, 2, result.Skipped[0].Row)
	assert.Equal(t, loclog.ColLine, result.Skipped[0].Column)
	assert.ErrorIs(t, result.Skipped[0], loclog.ErrBadInteger)
	assert.ErrorIs(t, result.Skipped[1], loclog.ErrBadTimestamp)
	assert.ErrorIs(t, result.Skipped[2], loclog.ErrEmptyCommitID)
}

func TestParse_RowIsLineNumber(t *testing.T) {
	t.Parallel()

	log := testHeader +
		"a1,\"odd\nname.js\",1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"a1,a.js,x,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n"

	result, err := loclog.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	require.Len(t, result.Skipped, 1)

	assert.Equal(t, 4, result.Skipped[0].Row)
	assert.Equal(t, loclog.ColLine, result.Skipped[0].Column)
}

func TestParse_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := loclog.Parse(strings.NewReader("commit,file,line\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, loclog.ErrMissingColumn))
	assert.Contains(t, err.Error(), "datetime")
}

func TestParse_Empty(t *testing.T) {
	t.Parallel()

	_, err := loclog.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, loclog.ErrEmptyLog)

	result, err := loclog.Parse(strings.NewReader(testHeader))
	require.NoError(t, err)
	assert.Empty(t, result.Records)
}

func TestParse_TypeFallsBackToExtension(t *testing.T) {
	t.Parallel()

	log := testHeader +
		"a1,lib/Util.TS,1,,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n" +
		"a1,Makefile,1,,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Ana\n"

	result, err := loclog.Parse(strings.NewReader(log))
	require.NoError(t, err)
	require.Len(t, result.Records, 2)
	assert.Equal(t, "ts", result.Records[0].Type)
	assert.Equal(t, "other", result.Records[1].Type)
}

func TestParser_Exclude(t *testing.T) {
	t.Parallel()

	parser, err := loclog.NewParser("**.css")
	require.NoError(t, err)

	result, err := parser.Parse(strings.NewReader(testLog))
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Excluded)
}

func TestNewParser_BadPattern(t *testing.T) {
	t.Parallel()

	_, err := loclog.NewParser("[")
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(testLog), 0o600))

	records := loclog.Load(context.Background(), path)
	assert.Len(t, records, 3)
}

func TestLoad_MissingFileYieldsEmpty(t *testing.T) {
	t.Parallel()

	records := loclog.Load(context.Background(), filepath.Join(t.TempDir(), "missing.csv"))
	require.NotNil(t, records)
	assert.Empty(t, records)
}

func TestLoad_HTTP(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/meta/loc.csv" {
			http.NotFound(w, r)

			return
		}

		_, _ = w.Write([]byte(testLog))
	}))
	defer srv.Close()

	records := loclog.Load(context.Background(), srv.URL+"/meta/loc.csv", loclog.WithHTTPClient(srv.Client()))
	assert.Len(t, records, 3)

	missing := loclog.Load(context.Background(), srv.URL+"/nope.csv", loclog.WithHTTPClient(srv.Client()))
	assert.Empty(t, missing)

	_, err := loclog.LoadResult(context.Background(), srv.URL+"/nope.csv", loclog.WithHTTPClient(srv.Client()))
	assert.ErrorIs(t, err, loclog.ErrUnexpectedHTTP)
}

func TestLoad_MaxSizeRejectsOversizedLog(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(testLog), 0o600))

	records := loclog.Load(context.Background(), path, loclog.WithMaxSize(int64(len(testHeader))))
	assert.Empty(t, records)

	_, err := loclog.LoadResult(context.Background(), path, loclog.WithMaxSize(int64(len(testHeader))))
	assert.ErrorIs(t, err, loclog.ErrLogTooLarge)
}

func TestLoad_MaxSizeCutMidRow(t *testing.T) {
	t.Parallel()

	log := testHeader +
		"a1,src/main.js,1,js,20,0,2024-01-01,10:30:00,+00:00,2024-01-01T10:30:00Z,Anastasia\n"

	path := filepath.Join(t.TempDir(), "loc.csv")
	require.NoError(t, os.WriteFile(path, []byte(log), 0o600))

	// The cap lands inside the author field.
	limit := loclog.WithMaxSize(int64(len(log) - 6))

	_, err := loclog.LoadResult(context.Background(), path, limit)
	require.ErrorIs(t, err, loclog.ErrLogTooLarge)

	assert.Empty(t, loclog.Load(context.Background(), path, limit))

	exact, err := loclog.LoadResult(context.Background(), path, loclog.WithMaxSize(int64(len(log))))
	require.NoError(t, err)
	require.Len(t, exact.Records, 1)
	assert.Equal(t, "Anastasia", exact.Records[0].Author)
}
